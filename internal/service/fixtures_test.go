package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/advisor"
	"github.com/spec-kit/coaching-service/internal/auth"
	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/flow"
	"github.com/spec-kit/coaching-service/internal/llm"
	"github.com/spec-kit/coaching-service/internal/payment"
	"github.com/spec-kit/coaching-service/internal/repository/memory"
	"github.com/spec-kit/coaching-service/internal/repository/repotest"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:             "test-secret",
	AccessTokenTTLMinutes: 60,
	BcryptCost:            4,
	MinPasswordLength:     6,
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func recordAll(d events.Dispatcher) *recordedEvents {
	rec := &recordedEvents{}
	for _, t := range []events.EventType{
		events.EventAccountRegistered, events.EventServiceHired, events.EventServiceStatusChanged,
		events.EventUpdateRequested, events.EventPaymentCompleted,
	} {
		d.Subscribe(t, func(_ context.Context, e events.Event) error {
			rec.mu.Lock()
			rec.events = append(rec.events, e)
			rec.mu.Unlock()
			return nil
		})
	}
	return rec
}

type memCache struct {
	mu          sync.Mutex
	offerings   []domain.Offering
	ok          bool
	sets        int
	invalidated int
}

func (c *memCache) Get(context.Context) ([]domain.Offering, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offerings, c.ok, nil
}

func (c *memCache) Set(_ context.Context, o []domain.Offering) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offerings, c.ok = o, true
	c.sets++
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offerings, c.ok = nil, false
	c.invalidated++
	return nil
}

// syncRunner runs background jobs inline.
type syncRunner struct{}

func (syncRunner) Submit(parent context.Context, job func(ctx context.Context)) error {
	job(parent)
	return nil
}

// goRunner runs background jobs on goroutines and lets tests wait for them.
type goRunner struct{ wg sync.WaitGroup }

func (r *goRunner) Submit(parent context.Context, job func(ctx context.Context)) error {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		job(parent)
	}()
	return nil
}

type countingRecorder struct {
	mu       sync.Mutex
	payments map[string]int
}

func (r *countingRecorder) RecordFlow(string, string) {}

func (r *countingRecorder) RecordPayment(provider, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.payments == nil {
		r.payments = map[string]int{}
	}
	r.payments[provider+":"+outcome]++
}

func (r *countingRecorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[key]
}

type stubProvider struct{ reply string }

func (p stubProvider) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return p.reply, nil
}

func (p stubProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	return p.reply, nil
}

var (
	planAllInOne = domain.Offering{
		ID: "all-in-one", Title: "All-in-One Plan", Price: "$17 USD/month", Amount: 17, Currency: "USD",
		Type: domain.ServiceTypeAllInOne, Active: true,
	}
	planCV = domain.Offering{
		ID: "cv-optimization", Title: "CV Optimization", Price: "$75 USD", Amount: 75, Currency: "USD",
		Type: domain.ServiceTypeCV, Active: true,
	}
)

type fixture struct {
	store      *repotest.Store
	dispatcher events.Dispatcher
	denylist   *repotest.Denylist
	cache      *memCache
	events     *recordedEvents
	recorder   *countingRecorder
	auth       *AuthService
	catalog    *CatalogService
	portal     *ClientPortalService
	admin      *AdminService
	flow       *FlowService
	sessions   *memory.FlowSessionRepository
	payments   *payment.Registry
}

func newFixture(t *testing.T, runner BackgroundRunner) *fixture {
	t.Helper()
	store := repotest.NewStore()
	store.AddOfferings(planAllInOne, planCV)
	store.AddGateways(domain.PaymentGateway{ID: "stripe", Name: "Stripe"}, domain.PaymentGateway{ID: "qr-code", Name: "QR Code"})

	dispatcher := events.NewInMemoryDispatcher(nil)
	f := &fixture{
		store:      store,
		dispatcher: dispatcher,
		denylist:   repotest.NewDenylist(),
		cache:      &memCache{},
		events:     recordAll(dispatcher),
		recorder:   &countingRecorder{},
		sessions:   memory.NewFlowSessionRepository(time.Minute),
	}
	f.auth = NewAuthService(testAuthConfig, AuthDependencies{UserRepo: store.Users(), Denylist: f.denylist, Dispatcher: dispatcher})
	f.catalog = NewCatalogService(CatalogDependencies{
		OfferingRepo: store.Offerings(), ClientServiceRepo: store.ClientServices(), Cache: f.cache, Dispatcher: dispatcher,
	}, 7)
	f.portal = NewClientPortalService(ClientPortalDependencies{
		UserRepo: store.Users(), ClientServiceRepo: store.ClientServices(), UpdateRequestRepo: store.UpdateRequestRepo(), Dispatcher: dispatcher,
	})
	f.admin = NewAdminService(AdminDependencies{
		UserRepo: store.Users(), ClientServiceRepo: store.ClientServices(), OfferingRepo: store.Offerings(),
		GatewayRepo: store.Gateways(), ReportRepo: store.Reports(), Cache: f.cache, Dispatcher: dispatcher,
	})
	f.payments = payment.NewDefaultRegistry(config.PaymentConfig{})
	if runner == nil {
		runner = syncRunner{}
	}
	f.flow = NewFlowService(FlowDependencies{
		Sessions:   f.sessions,
		Users:      store.Users(),
		Auth:       f.auth,
		Catalog:    f.catalog,
		Portal:     f.portal,
		Admin:      f.admin,
		Advisor:    advisor.NewService(stubProvider{reply: "ok"}, memory.NewChatHistoryRepository(time.Minute), nil),
		Payments:   f.payments,
		Runner:     runner,
		Recorder:   f.recorder,
		Dispatcher: dispatcher,
	})
	return f
}

func (f *fixture) register(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), domain.RegistrationData{FullName: "Test User", Email: email, Password: "secret123"})
	require.NoError(t, err)
	return res
}

func (f *fixture) makeAdmin(t *testing.T, email string) *AuthResult {
	t.Helper()
	res := f.register(t, email)
	res.User.Role = domain.UserRoleAdmin
	require.NoError(t, f.store.Users().Update(context.Background(), res.User))
	return res
}

func (f *fixture) signedInSession(t *testing.T, email string) *flow.Session {
	t.Helper()
	f.register(t, email)
	session := f.flow.Create(context.Background())
	_, err := f.flow.Login(context.Background(), session.ID, email, "secret123")
	require.NoError(t, err)
	return session
}

func parseToken(t *testing.T, token string) *auth.Claims {
	t.Helper()
	claims, err := auth.NewTokenManager(testAuthConfig.JWTSecret, testAuthConfig.AccessTokenTTLMinutes).ParseToken(token)
	require.NoError(t, err)
	return claims
}
