package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/domain"
)

func offering(id string) domain.Offering {
	return domain.Offering{ID: id, Title: "Plan " + id, Price: "$100", Amount: 100, Currency: "USD"}
}

var (
	client = domain.Identity{ID: "u-1", Name: "Ana Client", Email: "ana@example.com"}
	admin  = domain.Identity{ID: "u-2", Name: "Root", Email: "root@example.com", IsAdmin: true}
)

func startPlan(t *testing.T, c *Controller, o *domain.Offering) bool {
	t.Helper()
	started, err := c.StartPlan(context.Background(), o)
	require.NoError(t, err)
	return started
}

func TestOpenModalKeepsOneModalActive(t *testing.T) {
	c := NewController()
	kinds := []ModalKind{ModalAuth, ModalCVHelper, ModalStripePayment, ModalEditServicePlan, ModalAdvisor}
	for _, k := range kinds {
		require.NoError(t, c.OpenModal(k, nil))
		assert.Equal(t, k, c.Snapshot().Modal)
	}

	err := c.OpenModal(ModalNone, nil)
	assert.ErrorIs(t, err, ErrUnknownModal)
	err = c.OpenModal(ModalKind(99), nil)
	assert.ErrorIs(t, err, ErrUnknownModal)
	assert.Equal(t, ModalAdvisor, c.Snapshot().Modal)
}

func TestOpenModalRejectsMismatchedPayload(t *testing.T) {
	c := NewController()
	err := c.OpenModal(ModalEditServicePlan, AuthPayload{Mode: AuthModeLogin})
	assert.ErrorIs(t, err, ErrPayloadMismatch)
	assert.Equal(t, ModalNone, c.Snapshot().Modal)
}

func TestOpenModalWithoutPayloadKeepsStoredPayload(t *testing.T) {
	c := NewController()
	plan := EditPlanPayload{Plan: offering("p1")}
	require.NoError(t, c.OpenModal(ModalEditServicePlan, plan))
	require.NoError(t, c.OpenModal(ModalConfigurePaymentGateway, nil))

	_, ok := c.Payload()
	assert.False(t, ok, "payload of another kind must not leak into the active modal")

	require.NoError(t, c.OpenModal(ModalEditServicePlan, nil))
	p, ok := c.Payload()
	require.True(t, ok)
	assert.Equal(t, "p1", p.(EditPlanPayload).Plan.ID)
}

func TestPurchaseSurvivesAdvisorDetours(t *testing.T) {
	for _, kind := range []ModalKind{ModalCVHelper, ModalAdvisor, ModalCallCenterAdvisor, ModalFreelancerAdvisor} {
		t.Run(kind.String(), func(t *testing.T) {
			c := NewController()
			s := offering("s1")
			require.True(t, startPlan(t, c, &s))

			require.NoError(t, c.OpenModal(kind, nil))
			c.CloseModal()

			snap := c.Snapshot()
			require.NotNil(t, snap.PendingPurchase)
			assert.Equal(t, "s1", snap.PendingPurchase.ID)
			assert.Equal(t, ModalNone, snap.Modal)
		})
	}
}

func TestClosingAuthKeepsPurchase(t *testing.T) {
	c := NewController()
	s := offering("s1")
	require.True(t, startPlan(t, c, &s))
	c.CloseModal()
	assert.NotNil(t, c.Snapshot().PendingPurchase)
}

func TestClosingPaymentModalClearsPurchase(t *testing.T) {
	for _, method := range SupportedPaymentMethods {
		t.Run(string(method), func(t *testing.T) {
			c := NewController()
			s := offering("s1")
			require.True(t, startPlan(t, c, &s))
			_, err := c.ProceedToPayment(method, domain.RegistrationData{Email: "a@b.co"}, s)
			require.NoError(t, err)
			require.True(t, c.Snapshot().Modal.IsPayment())

			c.CloseModal()
			assert.Nil(t, c.Snapshot().PendingPurchase)
		})
	}
}

func TestClosingAdminModalClearsPurchase(t *testing.T) {
	c := NewController()
	s := offering("s1")
	require.True(t, startPlan(t, c, &s))
	require.NoError(t, c.OpenModal(ModalEditServicePlan, nil))
	c.CloseModal()
	assert.Nil(t, c.Snapshot().PendingPurchase)
}

func TestRegistrationCompletesPurchase(t *testing.T) {
	c := NewController()
	s := offering("s1")
	require.True(t, startPlan(t, c, &s))

	snap := c.Snapshot()
	assert.Equal(t, ModalAuth, snap.Modal)
	assert.Equal(t, StageAwaitingAuth, snap.Stage)
	p, ok := snap.Payload.(AuthPayload)
	require.True(t, ok)
	assert.Equal(t, AuthModePurchase, p.Mode)

	c.RegisterSuccess(client)

	snap = c.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, client, *snap.Session)
	assert.Nil(t, snap.PendingPurchase)
	assert.Equal(t, ViewDashboard, snap.View)
	assert.Equal(t, ModalNone, snap.Modal)
}

func TestLoginBypassesPayment(t *testing.T) {
	c := NewController()
	s := offering("s1")
	require.True(t, startPlan(t, c, &s))

	c.LoginSuccess(client)

	snap := c.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Nil(t, snap.PendingPurchase)
	assert.Equal(t, ViewDashboard, snap.View)
	assert.Nil(t, snap.Purchased)
	assert.Equal(t, StageAuthenticated, snap.Stage)
}

func TestAdminRouting(t *testing.T) {
	c := NewController()
	c.LoginSuccess(admin)
	assert.Equal(t, ViewAdmin, c.Snapshot().View)
	assert.Equal(t, StageAdmin, c.Snapshot().Stage)

	c = NewController()
	c.RegisterSuccess(admin)
	assert.Equal(t, ViewDashboard, c.Snapshot().View)

	c = NewController()
	c.LoginSuccess(client)
	assert.Equal(t, ViewDashboard, c.Snapshot().View)
}

func TestStartPlanWithSession(t *testing.T) {
	c := NewController()
	c.LoginSuccess(client)
	require.NoError(t, c.Navigate(ViewMain))

	s := offering("s1")
	require.True(t, startPlan(t, c, &s))
	snap := c.Snapshot()
	assert.Equal(t, ViewDashboard, snap.View)
	assert.Nil(t, snap.PendingPurchase)
	assert.Equal(t, ModalNone, snap.Modal)
}

func TestStartPlanDefaultOffering(t *testing.T) {
	c := NewController(WithDefaultOffering(func(context.Context) (domain.Offering, bool, error) {
		return offering("default"), true, nil
	}))
	require.True(t, startPlan(t, c, nil))
	assert.Equal(t, "default", c.Snapshot().PendingPurchase.ID)

	empty := NewController(WithDefaultOffering(func(context.Context) (domain.Offering, bool, error) {
		return domain.Offering{}, false, nil
	}))
	before := empty.Snapshot()
	assert.False(t, startPlan(t, empty, nil))
	assert.Equal(t, before, empty.Snapshot())

	assert.False(t, startPlan(t, NewController(), nil))
}

func TestStartPlanReturnsDefaultLookupError(t *testing.T) {
	lookupErr := errors.New("catalog unavailable")
	type ctxKey struct{}
	var seen context.Context
	c := NewController(WithDefaultOffering(func(ctx context.Context) (domain.Offering, bool, error) {
		seen = ctx
		return domain.Offering{}, false, lookupErr
	}))
	before := c.Snapshot()

	ctx := context.WithValue(context.Background(), ctxKey{}, "request")
	started, err := c.StartPlan(ctx, nil)
	assert.False(t, started)
	assert.ErrorIs(t, err, lookupErr)
	assert.Equal(t, "request", seen.Value(ctxKey{}))
	assert.Equal(t, before, c.Snapshot())
}

func TestArtifactAtMostOnce(t *testing.T) {
	c := NewController()
	c.LoginSuccess(client)

	a, err := NewArtifact(ArtifactOptimizedCV, "optimized text", time.Now())
	require.NoError(t, err)
	require.True(t, c.RecordArtifact(a))

	got, ok := c.ConsumeArtifact(ArtifactOptimizedCV)
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = c.ConsumeArtifact(ArtifactOptimizedCV)
	assert.False(t, ok)
}

func TestArtifactLastWriteWins(t *testing.T) {
	c := NewController()
	c.LoginSuccess(client)

	first, _ := NewArtifact(ArtifactFreelancerEvaluation, "first", time.Now())
	second, _ := NewArtifact(ArtifactFreelancerEvaluation, "second", time.Now())
	require.True(t, c.RecordArtifact(first))
	require.True(t, c.RecordArtifact(second))

	got, ok := c.ConsumeArtifact(ArtifactFreelancerEvaluation)
	require.True(t, ok)
	assert.Equal(t, "second", got.Text)
	_, ok = c.ConsumeArtifact(ArtifactFreelancerEvaluation)
	assert.False(t, ok)
}

func TestArtifactDroppedWithoutSession(t *testing.T) {
	c := NewController()
	a, _ := NewArtifact(ArtifactCallCenterEvaluation, "eval", time.Now())
	assert.False(t, c.RecordArtifact(a))

	c.LoginSuccess(client)
	_, ok := c.ConsumeArtifact(ArtifactCallCenterEvaluation)
	assert.False(t, ok)
}

func TestLogoutResetsEverything(t *testing.T) {
	var scrolled bool
	c := NewController(WithLogoutHook(func() { scrolled = true }))
	s := offering("s1")
	require.True(t, startPlan(t, c, &s))
	c.LoginSuccess(client)
	for k := ArtifactKind(0); k < artifactSlots; k++ {
		a, err := NewArtifact(k, "text", time.Now())
		require.NoError(t, err)
		require.True(t, c.RecordArtifact(a))
	}
	require.NoError(t, c.OpenModal(ModalRequestServiceUpdate, nil))

	c.Logout()

	snap := c.Snapshot()
	assert.Nil(t, snap.Session)
	assert.Equal(t, ViewMain, snap.View)
	assert.Nil(t, snap.PendingPurchase)
	assert.Equal(t, ModalNone, snap.Modal)
	assert.Empty(t, snap.Artifacts)
	assert.Equal(t, StageAnonymous, snap.Stage)
	assert.True(t, scrolled)
}

func TestUnsupportedPaymentMethod(t *testing.T) {
	c := NewController()
	s := offering("s1")
	require.True(t, startPlan(t, c, &s))
	before := c.Snapshot()

	_, err := c.ProceedToPayment("Unknown", domain.RegistrationData{}, s)
	require.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
	assert.Contains(t, err.Error(), "Unknown")

	after := c.Snapshot()
	assert.Equal(t, before.Modal, after.Modal)
	assert.Equal(t, before.Generation, after.Generation)
	assert.NotNil(t, after.PendingPurchase)
}

func TestPaymentMethodModals(t *testing.T) {
	cases := map[PaymentMethod]ModalKind{
		PaymentStripe:      ModalStripePayment,
		PaymentNequi:       ModalQRPayment,
		PaymentDaviPlata:   ModalQRPayment,
		PaymentQRCode:      ModalQRPayment,
		PaymentMercadoPago: ModalMercadoPagoRedirect,
	}
	for method, want := range cases {
		c := NewController()
		p, err := c.ProceedToPayment(method, domain.RegistrationData{}, offering("s1"))
		require.NoError(t, err)
		assert.Equal(t, want, p.Kind())
		assert.Equal(t, want, c.Snapshot().Modal)
		assert.Equal(t, StageAwaitingPayment, c.Snapshot().Stage)
	}
}

func TestPaymentCompletion(t *testing.T) {
	c := NewController()
	s := offering("s1")
	require.True(t, startPlan(t, c, &s))
	p, err := c.ProceedToPayment(PaymentStripe, domain.RegistrationData{Email: "ana@example.com"}, s)
	require.NoError(t, err)

	require.NoError(t, p.Complete(client))

	snap := c.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, ViewDashboard, snap.View)
	assert.Nil(t, snap.PendingPurchase)
	require.NotNil(t, snap.Purchased)
	assert.Equal(t, "s1", snap.Purchased.ID)
	assert.Equal(t, StageEntitled, snap.Stage)

	assert.ErrorIs(t, p.Complete(client), ErrStaleGeneration)
}

func TestPaymentCompletionAfterCloseIsDiscarded(t *testing.T) {
	c := NewController()
	s := offering("s1")
	p, err := c.ProceedToPayment(PaymentMercadoPago, domain.RegistrationData{}, s)
	require.NoError(t, err)
	assert.True(t, c.IsCurrent(p.Generation))

	c.CloseModal()
	assert.False(t, c.IsCurrent(p.Generation))

	assert.ErrorIs(t, p.Complete(client), ErrStaleGeneration)
	snap := c.Snapshot()
	assert.Nil(t, snap.Session)
	assert.Equal(t, ViewMain, snap.View)
}

func TestPaymentCompletionAfterNewCheckoutIsDiscarded(t *testing.T) {
	c := NewController()
	s := offering("s1")
	first, err := c.ProceedToPayment(PaymentStripe, domain.RegistrationData{}, s)
	require.NoError(t, err)
	second, err := c.ProceedToPayment(PaymentQRCode, domain.RegistrationData{}, s)
	require.NoError(t, err)

	assert.ErrorIs(t, first.Complete(client), ErrStaleGeneration)
	assert.NoError(t, second.Complete(client))
}

func TestZeroPaymentPayloadIsStale(t *testing.T) {
	assert.ErrorIs(t, PaymentPayload{}.Complete(client), ErrStaleGeneration)
	assert.ErrorIs(t, PaymentPayload{}.Claim(), ErrStaleGeneration)
}

func TestClaimedCheckoutCannotBeSuperseded(t *testing.T) {
	c := NewController()
	s := offering("s1")
	require.True(t, startPlan(t, c, &s))
	p, err := c.ProceedToPayment(PaymentStripe, domain.RegistrationData{Email: "ana@example.com"}, s)
	require.NoError(t, err)
	require.NoError(t, p.Claim())

	assert.ErrorIs(t, c.CloseModal(), ErrCheckoutCommitting)
	assert.ErrorIs(t, c.OpenModal(ModalAdvisor, nil), ErrCheckoutCommitting)
	_, err = c.ProceedToPayment(PaymentQRCode, domain.RegistrationData{}, s)
	assert.ErrorIs(t, err, ErrCheckoutCommitting)
	_, err = c.StartPlan(context.Background(), &s)
	assert.ErrorIs(t, err, ErrCheckoutCommitting)
	assert.ErrorIs(t, c.LoginSuccess(client), ErrCheckoutCommitting)
	assert.ErrorIs(t, c.RegisterSuccess(client), ErrCheckoutCommitting)
	assert.ErrorIs(t, c.Logout(), ErrCheckoutCommitting)
	assert.True(t, c.IsCurrent(p.Generation))
	assert.Equal(t, ModalStripePayment, c.Snapshot().Modal)

	require.NoError(t, p.Complete(client))
	snap := c.Snapshot()
	assert.Equal(t, StageEntitled, snap.Stage)
	assert.Equal(t, ModalNone, snap.Modal)
	assert.NoError(t, c.OpenModal(ModalAdvisor, nil))
}

func TestReleasedClaimLeavesCheckoutOpen(t *testing.T) {
	c := NewController()
	s := offering("s1")
	p, err := c.ProceedToPayment(PaymentStripe, domain.RegistrationData{}, s)
	require.NoError(t, err)
	require.NoError(t, p.Claim())

	p.Release()
	assert.Equal(t, ModalStripePayment, c.Snapshot().Modal)
	assert.Nil(t, c.Snapshot().Session)
	require.NoError(t, c.CloseModal())
	assert.ErrorIs(t, p.Claim(), ErrStaleGeneration)
}

func TestClaimAfterCloseIsStale(t *testing.T) {
	c := NewController()
	p, err := c.ProceedToPayment(PaymentQRCode, domain.RegistrationData{}, offering("s1"))
	require.NoError(t, err)
	require.NoError(t, c.CloseModal())

	assert.ErrorIs(t, p.Claim(), ErrStaleGeneration)
	assert.NoError(t, c.OpenModal(ModalAdvisor, nil))
}

func TestNavigateEnforcesViewAccess(t *testing.T) {
	c := NewController()
	assert.ErrorIs(t, c.Navigate(ViewDashboard), ErrViewNotAllowed)
	assert.ErrorIs(t, c.Navigate(ViewAdmin), ErrViewNotAllowed)
	assert.NoError(t, c.Navigate(ViewMain))

	c.LoginSuccess(client)
	assert.NoError(t, c.Navigate(ViewDashboard))
	assert.ErrorIs(t, c.Navigate(ViewAdmin), ErrViewNotAllowed)

	c.Logout()
	c.LoginSuccess(admin)
	assert.NoError(t, c.Navigate(ViewAdmin))
	assert.ErrorIs(t, c.Navigate(ViewDashboard), ErrViewNotAllowed)
}

func TestObserverSeesOperations(t *testing.T) {
	var ops []string
	c := NewController(WithObserver(func(op, outcome string) {
		ops = append(ops, op+":"+outcome)
	}))
	c.LoginSuccess(client)
	c.Logout()
	a, _ := NewArtifact(ArtifactOptimizedCV, "x", time.Now())
	c.RecordArtifact(a)

	assert.Equal(t, []string{"login_success:dashboard", "logout:main", "record_artifact:dropped"}, ops)
}

func TestConcurrentOperations(t *testing.T) {
	c := NewController()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				_ = c.OpenModal(ModalAdvisor, nil)
			case 1:
				c.CloseModal()
			case 2:
				p, err := c.ProceedToPayment(PaymentStripe, domain.RegistrationData{}, offering("s"))
				if err == nil {
					_ = p.Complete(client)
				}
			default:
				_ = c.Snapshot()
			}
		}(i)
	}
	wg.Wait()
	assert.True(t, c.Snapshot().Modal.Valid())
}
