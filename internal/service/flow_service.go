package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/advisor"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/flow"
	"github.com/spec-kit/coaching-service/internal/payment"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// FlowSessionStore holds live flow sessions.
type FlowSessionStore interface {
	Save(session *flow.Session)
	Get(id string) (*flow.Session, bool)
	Delete(id string)
}

// BackgroundRunner runs asynchronous checkouts.
type BackgroundRunner interface {
	Submit(parent context.Context, job func(ctx context.Context)) error
}

// FlowRecorder receives flow and payment outcomes.
type FlowRecorder interface {
	RecordFlow(operation, outcome string)
	RecordPayment(provider, outcome string)
}

// FlowDependencies groups collaborators of the flow service.
type FlowDependencies struct {
	Sessions   FlowSessionStore
	Users      repository.UserRepository
	Auth       *AuthService
	Catalog    *CatalogService
	Portal     *ClientPortalService
	Admin      *AdminService
	Advisor    *advisor.Service
	Payments   *payment.Registry
	Runner     BackgroundRunner
	Recorder   FlowRecorder
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// FlowService drives one purchase and session flow controller per browser.
type FlowService struct {
	sessions   FlowSessionStore
	users      repository.UserRepository
	auth       *AuthService
	catalog    *CatalogService
	portal     *ClientPortalService
	admin      *AdminService
	advisor    *advisor.Service
	payments   *payment.Registry
	runner     BackgroundRunner
	recorder   FlowRecorder
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewFlowService builds the service.
func NewFlowService(deps FlowDependencies) *FlowService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlowService{
		sessions:   deps.Sessions,
		users:      deps.Users,
		auth:       deps.Auth,
		catalog:    deps.Catalog,
		portal:     deps.Portal,
		admin:      deps.Admin,
		advisor:    deps.Advisor,
		payments:   deps.Payments,
		runner:     deps.Runner,
		recorder:   deps.Recorder,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create starts a new anonymous flow session.
func (s *FlowService) Create(ctx context.Context) *flow.Session {
	id := uuid.NewString()
	controller := flow.NewController(
		flow.WithDefaultOffering(s.catalog.DefaultOffering),
		flow.WithObserver(s.observer(id)),
		flow.WithLogoutHook(func() {
			if s.advisor != nil {
				s.advisor.ResetSession(id)
			}
		}),
		flow.WithClock(s.now),
	)
	session := flow.NewSession(id, controller, s.now())
	s.sessions.Save(session)
	s.logger.Debug("flow session created", zap.String("session_id", id))
	return session
}

func (s *FlowService) observer(sessionID string) flow.Observer {
	return func(operation, outcome string) {
		if s.recorder != nil {
			s.recorder.RecordFlow(operation, outcome)
		}
		switch outcome {
		case "rejected", "dropped", "stale", "unsupported_method":
			s.logger.Warn("flow operation not applied",
				zap.String("session_id", sessionID),
				zap.String("operation", operation),
				zap.String("outcome", outcome))
		default:
			s.logger.Debug("flow operation",
				zap.String("session_id", sessionID),
				zap.String("operation", operation),
				zap.String("outcome", outcome))
		}
	}
}

// Get returns a live session.
func (s *FlowService) Get(id string) (*flow.Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("flow session", map[string]any{"sessionId": id})
	}
	return session, nil
}

// End discards a session.
func (s *FlowService) End(id string) error {
	session, err := s.Get(id)
	if err != nil {
		return err
	}
	session.Reset()
	if s.advisor != nil {
		s.advisor.ResetSession(id)
	}
	s.sessions.Delete(id)
	return nil
}

// Release cleans up after a session evicted from the store.
func (s *FlowService) Release(session *flow.Session) {
	session.CancelCheckout()
	if s.advisor != nil {
		s.advisor.ResetSession(session.ID)
	}
}

// OpenModalRequest names the modal to open and the entity it edits.
type OpenModalRequest struct {
	Modal     flow.ModalKind
	ServiceID string
	PlanID    string
	GatewayID string
}

// OpenModal opens a modal, building its payload from the referenced entity.
func (s *FlowService) OpenModal(ctx context.Context, id string, req OpenModalRequest) (*flow.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	payload, err := s.buildPayload(ctx, session, req)
	if err != nil {
		return nil, err
	}
	if err := session.OpenModal(req.Modal, payload); err != nil {
		return nil, flowError(err)
	}
	return session, nil
}

func (s *FlowService) buildPayload(ctx context.Context, session *flow.Session, req OpenModalRequest) (flow.Payload, error) {
	switch req.Modal {
	case flow.ModalAuth:
		if req.ServiceID == "" {
			return flow.AuthPayload{Mode: flow.AuthModeLogin}, nil
		}
		offering, err := s.catalog.GetOffering(ctx, req.ServiceID)
		if err != nil {
			return nil, err
		}
		return flow.AuthPayload{Mode: flow.AuthModePurchase, Service: offering}, nil

	case flow.ModalRequestServiceUpdate:
		user, err := s.sessionUser(ctx, session)
		if err != nil {
			return nil, err
		}
		svc, err := s.catalog.GetHired(ctx, user, req.ServiceID)
		if err != nil {
			return nil, err
		}
		return flow.ServiceUpdatePayload{
			Service: *svc,
			OnSaveNote: func(ctx context.Context, updateType, message string) error {
				_, err := s.portal.RequestUpdate(ctx, user, svc.ID, updateType, message)
				return err
			},
		}, nil

	case flow.ModalEditServicePlan:
		if _, err := s.sessionAdmin(ctx, session); err != nil {
			return nil, err
		}
		plans, err := s.admin.ListPlans(ctx)
		if err != nil {
			return nil, err
		}
		for _, plan := range plans {
			if plan.ID == req.PlanID {
				return flow.EditPlanPayload{
					Plan: plan,
					OnSave: func(ctx context.Context, plan domain.Offering) error {
						_, err := s.admin.UpdatePlan(ctx, plan)
						return err
					},
				}, nil
			}
		}
		return nil, apperrors.NewNotFound("plan", map[string]any{"id": req.PlanID})

	case flow.ModalConfigurePaymentGateway:
		if _, err := s.sessionAdmin(ctx, session); err != nil {
			return nil, err
		}
		gateways, err := s.admin.ListGateways(ctx)
		if err != nil {
			return nil, err
		}
		for _, gw := range gateways {
			if gw.ID == req.GatewayID {
				return flow.GatewayPayload{
					Gateway: gw,
					OnSave: func(ctx context.Context, gw domain.PaymentGateway) error {
						_, err := s.admin.UpdateGateway(ctx, gw)
						return err
					},
				}, nil
			}
		}
		return nil, apperrors.NewNotFound("gateway", map[string]any{"id": req.GatewayID})

	case flow.ModalStripePayment, flow.ModalQRPayment, flow.ModalMercadoPagoRedirect:
		return nil, apperrors.NewValidationError("checkout modals open through registration with a payment method", map[string]any{"modal": req.Modal.String()})
	}
	return nil, nil
}

// SubmitModalRequest carries the form of an editing modal.
type SubmitModalRequest struct {
	UpdateType string
	Message    string
	Plan       *domain.Offering
	Gateway    *domain.PaymentGateway
}

// SubmitModal saves the form of the active modal and closes it.
func (s *FlowService) SubmitModal(ctx context.Context, id string, req SubmitModalRequest) (*flow.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	active, ok := session.Payload()
	if !ok {
		return nil, apperrors.NewValidationError("the active modal has no form to submit", nil)
	}

	switch p := active.(type) {
	case flow.ServiceUpdatePayload:
		err = p.OnSaveNote(ctx, req.UpdateType, req.Message)
	case flow.EditPlanPayload:
		if req.Plan == nil {
			return nil, apperrors.NewValidationError("plan is required", map[string]any{"field": "plan"})
		}
		plan := *req.Plan
		plan.ID = p.Plan.ID
		err = p.OnSave(ctx, plan)
	case flow.GatewayPayload:
		if req.Gateway == nil {
			return nil, apperrors.NewValidationError("gateway is required", map[string]any{"field": "gateway"})
		}
		gw := *req.Gateway
		gw.ID = p.Gateway.ID
		err = p.OnSave(ctx, gw)
	default:
		return nil, apperrors.NewValidationError("the active modal has no form to submit", map[string]any{"modal": active.Kind().String()})
	}
	if err != nil {
		return nil, err
	}
	session.CloseModal()
	return session, nil
}

// CloseModal closes the active modal, cancelling its checkout or chat.
func (s *FlowService) CloseModal(id string) (*flow.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	modal := session.Snapshot().Modal
	if err := session.CloseModal(); err != nil {
		return nil, flowError(err)
	}
	if modal.IsPayment() {
		session.CancelCheckout()
	}
	if channel, ok := chatChannel(modal); ok && s.advisor != nil {
		s.advisor.ResetChat(id, channel)
	}
	return session, nil
}

func chatChannel(modal flow.ModalKind) (advisor.Channel, bool) {
	switch modal {
	case flow.ModalAdvisor:
		return advisor.ChannelMentor, true
	case flow.ModalCallCenterAdvisor:
		return advisor.ChannelInterview, true
	}
	return "", false
}

// StartPlan begins buying serviceID, or the default offering when empty. It
// reports false when the catalog is empty.
func (s *FlowService) StartPlan(ctx context.Context, id, serviceID string) (*flow.Session, bool, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, false, err
	}
	var offering *domain.Offering
	if strings.TrimSpace(serviceID) != "" {
		if offering, err = s.catalog.GetOffering(ctx, serviceID); err != nil {
			return nil, false, err
		}
	}
	started, err := session.StartPlan(ctx, offering)
	if err != nil {
		return nil, false, flowError(err)
	}
	return session, started, nil
}

// Login authenticates and signs the session in.
func (s *FlowService) Login(ctx context.Context, id, email, password string) (*flow.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := session.LoginSuccess(res.User.Identity()); err != nil {
		return nil, flowError(err)
	}
	session.SetToken(res.Token)
	return session, nil
}

// RegisterRequest is the registration form. A payment method routes the
// registration through checkout.
type RegisterRequest struct {
	Data          domain.RegistrationData
	PaymentMethod string
	ServiceID     string
}

// Register creates the account directly, or opens the checkout modal for the
// chosen payment method and registers once the payment confirms.
func (s *FlowService) Register(ctx context.Context, id string, req RegisterRequest) (*flow.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.PaymentMethod) == "" {
		res, err := s.auth.Register(ctx, req.Data)
		if err != nil {
			return nil, err
		}
		if err := session.RegisterSuccess(res.User.Identity()); err != nil {
			return nil, flowError(err)
		}
		session.SetToken(res.Token)
		return session, nil
	}

	if err := s.auth.ValidateRegistration(req.Data); err != nil {
		return nil, err
	}
	if err := s.auth.EnsureEmailAvailable(ctx, req.Data.Email); err != nil {
		return nil, err
	}
	service, err := s.checkoutOffering(ctx, session, req.ServiceID)
	if err != nil {
		return nil, err
	}

	req.Data.Email = NormalizeEmail(req.Data.Email)
	checkout, err := session.ProceedToPayment(flow.PaymentMethod(req.PaymentMethod), req.Data, service)
	if err != nil {
		if errors.Is(err, flow.ErrUnsupportedPaymentMethod) {
			s.logger.Warn("unsupported payment method",
				zap.String("session_id", id),
				zap.String("method", req.PaymentMethod))
			return nil, apperrors.NewUnsupportedPaymentMethod(req.PaymentMethod, flow.SupportedPaymentMethodNames())
		}
		return nil, flowError(err)
	}

	provider, err := s.payments.For(checkout.Kind())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if provider.AutoStart() {
		if err := s.startCheckout(session, checkout, provider); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (s *FlowService) checkoutOffering(ctx context.Context, session *flow.Session, serviceID string) (domain.Offering, error) {
	if strings.TrimSpace(serviceID) != "" {
		offering, err := s.catalog.GetOffering(ctx, serviceID)
		if err != nil {
			return domain.Offering{}, err
		}
		return *offering, nil
	}
	if pending := session.Snapshot().PendingPurchase; pending != nil {
		return *pending, nil
	}
	offering, ok, err := s.catalog.DefaultOffering(ctx)
	if err != nil {
		return domain.Offering{}, err
	}
	if ok {
		return offering, nil
	}
	return domain.Offering{}, apperrors.NewValidationError("no service selected", map[string]any{"field": "serviceId"})
}

// ConfirmPayment starts processing the checkout shown in the active modal.
func (s *FlowService) ConfirmPayment(ctx context.Context, id string) (*flow.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	active, ok := session.Payload()
	checkout, isCheckout := active.(flow.PaymentPayload)
	if !ok || !isCheckout {
		return nil, apperrors.NewValidationError("no checkout in progress", nil)
	}
	provider, err := s.payments.For(checkout.Kind())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.startCheckout(session, checkout, provider); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *FlowService) startCheckout(session *flow.Session, checkout flow.PaymentPayload, provider payment.Provider) error {
	jobCtx, cancel := context.WithCancel(context.Background())
	if !session.BeginCheckout(provider.Name(), checkout.Generation, cancel) {
		cancel()
		return apperrors.NewConflict("payment already in progress", nil)
	}
	err := s.runner.Submit(jobCtx, func(ctx context.Context) {
		s.runCheckout(ctx, session, checkout, provider)
	})
	if err != nil {
		cancel()
		session.FinishCheckout(checkout.Generation, flow.CheckoutFailed, "", err.Error())
		s.recordPayment(provider.Name(), "rejected")
		return apperrors.NewUpstreamError("payment processing is busy, try again", err)
	}
	return nil
}

func (s *FlowService) runCheckout(ctx context.Context, session *flow.Session, checkout flow.PaymentPayload, provider payment.Provider) {
	gen := checkout.Generation
	log := s.logger.With(
		zap.String("session_id", session.ID),
		zap.String("provider", provider.Name()),
		zap.Uint64("generation", gen))

	receipt, err := provider.Process(ctx, payment.Request{
		Method:       checkout.Method,
		Service:      checkout.Service,
		Registration: checkout.Registration,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.recordPayment(provider.Name(), "cancelled")
			session.FinishCheckout(gen, flow.CheckoutCancelled, "", "checkout cancelled")
			log.Info("checkout cancelled")
			return
		}
		s.recordPayment(provider.Name(), "failed")
		session.FinishCheckout(gen, flow.CheckoutFailed, "", err.Error())
		log.Warn("checkout failed", zap.Error(err))
		return
	}

	if err := checkout.Claim(); err != nil {
		s.recordPayment(provider.Name(), "stale")
		session.FinishCheckout(gen, flow.CheckoutCancelled, receipt.Reference, "checkout superseded")
		log.Warn("discarding payment for superseded checkout", zap.String("reference", receipt.Reference))
		return
	}
	// From here the checkout can no longer be superseded; the writes run to
	// completion even when the session is ended meanwhile.
	ctx = context.WithoutCancel(ctx)
	fail := func(msg string, err error, fields ...zap.Field) {
		checkout.Release()
		s.recordPayment(provider.Name(), "failed")
		session.FinishCheckout(gen, flow.CheckoutFailed, receipt.Reference, errorMessage(err))
		log.Error(msg, append(fields, zap.String("reference", receipt.Reference), zap.Error(err))...)
	}

	if _, err := s.catalog.GetOffering(ctx, checkout.Service.ID); err != nil {
		fail("purchased offering unavailable", err)
		return
	}
	res, err := s.auth.Register(ctx, checkout.Registration)
	if err != nil {
		fail("registration after payment failed", err)
		return
	}
	if _, err := s.catalog.Hire(ctx, res.User, HireInput{OfferingID: checkout.Service.ID, Paid: true}); err != nil {
		fail("recording paid service failed", err, zap.String("user_id", res.User.ID))
		return
	}
	publish(ctx, s.dispatcher, events.EventPaymentCompleted, res.User, events.PaymentCompletedPayload{
		Provider:   receipt.Provider,
		Reference:  receipt.Reference,
		OfferingID: checkout.Service.ID,
		Amount:     receipt.Amount,
		Currency:   receipt.Currency,
	})

	session.SetToken(res.Token)
	if err := checkout.Complete(res.User.Identity()); err != nil {
		// Only reachable when the claim was lost, which the controller prevents.
		session.SetToken("")
		s.recordPayment(provider.Name(), "stale")
		session.FinishCheckout(gen, flow.CheckoutCancelled, receipt.Reference, "checkout superseded")
		log.Error("account registered but session moved on", zap.String("user_id", res.User.ID))
		return
	}

	s.recordPayment(provider.Name(), "succeeded")
	session.FinishCheckout(gen, flow.CheckoutSucceeded, receipt.Reference, "")
	log.Info("checkout completed", zap.String("reference", receipt.Reference), zap.String("user_id", res.User.ID))
}

func (s *FlowService) recordPayment(provider, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordPayment(provider, outcome)
	}
}

func errorMessage(err error) string {
	if domainErr := apperrors.ToDomainError(err); domainErr != nil {
		return domainErr.Message
	}
	return err.Error()
}

// Logout revokes the session token and resets the controller.
func (s *FlowService) Logout(ctx context.Context, id string) (*flow.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	token := session.Token()
	if err := session.Logout(); err != nil {
		return nil, flowError(err)
	}
	if token != "" {
		if claims, err := s.auth.TokenManager().ParseToken(token); err == nil {
			if err := s.auth.Logout(ctx, claims); err != nil {
				s.logger.Warn("token revocation failed", zap.String("session_id", id), zap.Error(err))
			}
		}
	}
	session.Reset()
	return session, nil
}

// Navigate switches the top-level view.
func (s *FlowService) Navigate(id string, view flow.View) (*flow.Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Navigate(view); err != nil {
		return nil, flowError(err)
	}
	return session, nil
}

// ApproveArtifact hands approved tool output to the dashboard. It reports
// false when the session is anonymous and the output was dropped.
func (s *FlowService) ApproveArtifact(id string, kind flow.ArtifactKind, text string) (*flow.Artifact, bool, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, false, apperrors.NewValidationError("text is required", map[string]any{"field": "text"})
	}
	artifact, err := flow.NewArtifact(kind, text, session.Now())
	if err != nil {
		return nil, false, flowError(err)
	}
	return &artifact, session.RecordArtifact(artifact), nil
}

// ConsumeArtifact takes the artifact of kind and adds it to the service list
// of the signed-in client. A nil artifact means the slot was empty.
func (s *FlowService) ConsumeArtifact(ctx context.Context, id string, kind flow.ArtifactKind) (*flow.Artifact, *domain.ClientService, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if !kind.Valid() {
		return nil, nil, flowError(flow.ErrUnknownArtifact)
	}
	user, err := s.sessionUser(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	artifact, ok := session.ConsumeArtifact(kind)
	if !ok {
		return nil, nil, nil
	}
	saved, err := s.portal.SaveArtifact(ctx, user, artifact)
	if err != nil {
		return &artifact, nil, err
	}
	return &artifact, saved, nil
}

func (s *FlowService) sessionUser(ctx context.Context, session *flow.Session) (*domain.User, error) {
	identity, ok := session.Session()
	if !ok {
		return nil, flowError(flow.ErrNoSession)
	}
	user, err := s.users.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *FlowService) sessionAdmin(ctx context.Context, session *flow.Session) (*domain.User, error) {
	user, err := s.sessionUser(ctx, session)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	return user, nil
}
