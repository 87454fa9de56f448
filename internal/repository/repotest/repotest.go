// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/repository"
)

// ErrUndefinedTable mimics Postgres error 42P01.
var ErrUndefinedTable = &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}

// Store backs every in-memory repository of one test.
type Store struct {
	mu       sync.Mutex
	seq      int
	now      func() time.Time
	users    map[string]domain.User
	services map[string]domain.ClientService
	requests []domain.UpdateRequest
	offers   []domain.Offering
	gateways []domain.PaymentGateway

	// OfferingErr, when set, is returned by every offering query.
	OfferingErr error
	// ServiceCreateErr, when set, is returned when a hired service is created.
	ServiceCreateErr error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[string]domain.User),
		services: make(map[string]domain.ClientService),
	}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// AddOfferings seeds the catalog.
func (s *Store) AddOfferings(offers ...domain.Offering) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers = append(s.offers, offers...)
}

// AddGateways seeds payment gateways.
func (s *Store) AddGateways(gws ...domain.PaymentGateway) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gateways = append(s.gateways, gws...)
}

// UpdateRequests returns the stored update requests.
func (s *Store) UpdateRequests() []domain.UpdateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.UpdateRequest(nil), s.requests...)
}

// Users returns the user repository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Offerings returns the offering repository.
func (s *Store) Offerings() repository.OfferingRepository { return offeringRepo{s} }

// ClientServices returns the hired service repository.
func (s *Store) ClientServices() repository.ClientServiceRepository { return clientServiceRepo{s} }

// UpdateRequestRepo returns the update request repository.
func (s *Store) UpdateRequestRepo() repository.UpdateRequestRepository { return updateRequestRepo{s} }

// Gateways returns the gateway repository.
func (s *Store) Gateways() repository.GatewayRepository { return gatewayRepo{s} }

// Reports returns the report repository.
func (s *Store) Reports() repository.ReportRepository { return reportRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
		}
	}
	user.ID = r.s.nextID("user")
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) ListClients(_ context.Context, limit, offset int) ([]domain.ClientSummary, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.ClientSummary
	for _, u := range r.s.users {
		if u.Role != domain.UserRoleClient {
			continue
		}
		c := domain.ClientSummary{ID: u.ID, Email: u.Email, FullName: u.FullName, Phone: u.Phone, CreatedAt: u.CreatedAt}
		for _, svc := range r.s.services {
			if svc.ClientID == u.ID {
				c.TotalServices++
			}
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), int64(len(all)), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type offeringRepo struct{ s *Store }

func (r offeringRepo) ListActive(_ context.Context) ([]domain.Offering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.OfferingErr != nil {
		return nil, r.s.OfferingErr
	}
	var out []domain.Offering
	for _, o := range r.s.offers {
		if o.Active {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r offeringRepo) ListAll(_ context.Context) ([]domain.Offering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.OfferingErr != nil {
		return nil, r.s.OfferingErr
	}
	return append([]domain.Offering(nil), r.s.offers...), nil
}

func (r offeringRepo) GetByID(_ context.Context, id string) (*domain.Offering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.OfferingErr != nil {
		return nil, r.s.OfferingErr
	}
	for _, o := range r.s.offers {
		if o.ID == id {
			offering := o
			return &offering, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r offeringRepo) Update(_ context.Context, offering *domain.Offering) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, o := range r.s.offers {
		if o.ID == offering.ID {
			offering.UpdatedAt = r.s.now()
			r.s.offers[i] = *offering
			return nil
		}
	}
	return pgx.ErrNoRows
}

type clientServiceRepo struct{ s *Store }

func (r clientServiceRepo) withClient(svc domain.ClientService) domain.ClientService {
	if u, ok := r.s.users[svc.ClientID]; ok {
		svc.ClientName = u.FullName
		svc.ClientEmail = u.Email
	}
	return svc
}

func (r clientServiceRepo) Create(_ context.Context, svc *domain.ClientService) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ServiceCreateErr != nil {
		return r.s.ServiceCreateErr
	}
	svc.ID = r.s.nextID("svc")
	svc.CreatedAt = r.s.now().Add(time.Duration(r.s.seq) * time.Millisecond)
	svc.UpdatedAt = svc.CreatedAt
	r.s.services[svc.ID] = *svc
	return nil
}

func (r clientServiceRepo) GetForClient(_ context.Context, id, clientID string) (*domain.ClientService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok || svc.ClientID != clientID {
		return nil, pgx.ErrNoRows
	}
	svc = r.withClient(svc)
	return &svc, nil
}

func (r clientServiceRepo) ListByClient(ctx context.Context, clientID string) ([]domain.ClientService, error) {
	list, _, err := r.List(ctx, repository.ClientServiceFilter{ClientID: &clientID, Limit: 1 << 20})
	return list, err
}

func (r clientServiceRepo) List(_ context.Context, filter repository.ClientServiceFilter) ([]domain.ClientService, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.ClientService
	for _, svc := range r.s.services {
		if filter.ClientID != nil && svc.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && svc.Status != *filter.Status {
			continue
		}
		out = append(out, r.withClient(svc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func (r clientServiceRepo) UpdateStatus(_ context.Context, id string, status domain.EngagementStatus, notes *string) (*domain.ClientService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	svc.Status = status
	if notes != nil {
		svc.Notes = notes
	}
	svc.UpdatedAt = r.s.now()
	r.s.services[id] = svc
	svc = r.withClient(svc)
	return &svc, nil
}

type updateRequestRepo struct{ s *Store }

func (r updateRequestRepo) Create(_ context.Context, req *domain.UpdateRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req.ID = r.s.nextID("req")
	req.CreatedAt = r.s.now()
	r.s.requests = append(r.s.requests, *req)
	return nil
}

type gatewayRepo struct{ s *Store }

func (r gatewayRepo) List(_ context.Context) ([]domain.PaymentGateway, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]domain.PaymentGateway(nil), r.s.gateways...)
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (r gatewayRepo) GetByID(_ context.Context, id string) (*domain.PaymentGateway, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, gw := range r.s.gateways {
		if gw.ID == id {
			g := gw
			return &g, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r gatewayRepo) Update(_ context.Context, gw *domain.PaymentGateway) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, g := range r.s.gateways {
		if g.ID == gw.ID {
			gw.UpdatedAt = r.s.now()
			r.s.gateways[i] = *gw
			return nil
		}
	}
	return pgx.ErrNoRows
}

type reportRepo struct{ s *Store }

func (r reportRepo) Overview(_ context.Context) (*domain.DashboardOverview, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var o domain.DashboardOverview
	for _, u := range r.s.users {
		if u.Role == domain.UserRoleClient {
			o.TotalClients++
		}
	}
	for _, svc := range r.s.services {
		o.TotalServices++
		switch svc.Status {
		case domain.EngagementStatusPending:
			o.PendingServices++
		case domain.EngagementStatusInProgress:
			o.InProgressServices++
		case domain.EngagementStatusCompleted:
			o.CompletedServices++
		}
		if svc.PaymentStatus == domain.PaymentStatusPaid {
			o.TotalRevenue += svc.Price
		}
	}
	return &o, nil
}

func (r reportRepo) MonthlyRevenue(_ context.Context, months int) ([]domain.MonthlyRevenue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byMonth := map[time.Time]*domain.MonthlyRevenue{}
	cutoff := r.s.now().AddDate(0, -months, 0)
	for _, svc := range r.s.services {
		if svc.PaymentStatus != domain.PaymentStatusPaid || svc.CreatedAt.Before(cutoff) {
			continue
		}
		month := time.Date(svc.CreatedAt.Year(), svc.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := byMonth[month]
		if !ok {
			m = &domain.MonthlyRevenue{Month: month}
			byMonth[month] = m
		}
		m.Revenue += svc.Price
		m.ServicesCount++
	}
	out := make([]domain.MonthlyRevenue, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.After(out[j].Month) })
	return out, nil
}
