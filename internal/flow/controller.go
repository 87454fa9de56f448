package flow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// Stage is the position of the visitor on the purchase path.
type Stage string

const (
	StageAnonymous       Stage = "anonymous"
	StageAwaitingAuth    Stage = "awaiting_auth"
	StageAwaitingPayment Stage = "awaiting_payment"
	StageAuthenticated   Stage = "authenticated"
	StageEntitled        Stage = "entitled"
	StageAdmin           Stage = "admin"
)

// Observer is told about every controller operation and its outcome.
type Observer func(operation, outcome string)

// Option customizes a Controller.
type Option func(*Controller)

// WithDefaultOffering sets the lookup StartPlan falls back to. It reports
// false when the catalog is empty.
func WithDefaultOffering(fn func(ctx context.Context) (domain.Offering, bool, error)) Option {
	return func(c *Controller) { c.defaultOffering = fn }
}

// WithObserver registers an operation observer.
func WithObserver(obs Observer) Option {
	return func(c *Controller) { c.observer = obs }
}

// WithLogoutHook registers a side effect run after Logout, outside the lock.
func WithLogoutHook(fn func()) Option {
	return func(c *Controller) { c.onLogout = fn }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns the session, modal, view, pending purchase and artifact
// slots of one visitor. It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	session   *domain.Identity
	modal     ModalKind
	payload   Payload
	pending   *domain.Offering
	purchased *domain.Offering
	view      View
	artifacts [artifactSlots]*Artifact

	// generation advances on every transition that invalidates in-flight async work.
	generation uint64

	// committing is the generation of a claimed checkout whose account and
	// purchase are being written; zero when none.
	committing uint64

	defaultOffering func(ctx context.Context) (domain.Offering, bool, error)
	observer        Observer
	onLogout        func()
	now             func() time.Time
}

// NewController returns a controller in the anonymous initial state.
func NewController(opts ...Option) *Controller {
	c := &Controller{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenModal shows kind. A nil payload keeps the previously stored payload.
func (c *Controller) OpenModal(kind ModalKind, payload Payload) error {
	if kind == ModalNone || !kind.Valid() {
		c.observe("open_modal", "rejected")
		return fmt.Errorf("%w: %s", ErrUnknownModal, kind)
	}
	if payload != nil && payload.Kind() != kind {
		c.observe("open_modal", "rejected")
		return fmt.Errorf("%w: %s payload for %s modal", ErrPayloadMismatch, payload.Kind(), kind)
	}

	c.mu.Lock()
	if c.committing != 0 {
		c.mu.Unlock()
		c.observe("open_modal", "committing")
		return ErrCheckoutCommitting
	}
	c.openLocked(kind, payload)
	c.mu.Unlock()

	c.observe("open_modal", kind.String())
	return nil
}

func (c *Controller) openLocked(kind ModalKind, payload Payload) {
	c.modal = kind
	if payload != nil {
		c.payload = payload
	}
	c.generation++
}

// CloseModal hides the active modal. Closing anything but the auth modal or an
// advisor modal abandons the pending purchase. A claimed checkout cannot be
// closed.
func (c *Controller) CloseModal() error {
	c.mu.Lock()
	if c.committing != 0 {
		c.mu.Unlock()
		c.observe("close_modal", "committing")
		return ErrCheckoutCommitting
	}
	closed := c.modal
	c.closeLocked()
	c.mu.Unlock()

	c.observe("close_modal", closed.String())
	return nil
}

func (c *Controller) closeLocked() {
	if !c.modal.keepsPurchase() {
		c.pending = nil
	}
	c.modal = ModalNone
	c.payload = nil
	c.generation++
}

// StartPlan begins buying offering, or the default offering when nil.
// Anonymous visitors are sent to the auth modal with the purchase pending;
// signed-in visitors go straight to the dashboard. It reports false when there
// is nothing to buy; a failed default lookup is returned as an error.
func (c *Controller) StartPlan(ctx context.Context, offering *domain.Offering) (bool, error) {
	var chosen domain.Offering
	switch {
	case offering != nil:
		chosen = *offering
	case c.defaultOffering != nil:
		found, ok, err := c.defaultOffering(ctx)
		if err != nil {
			c.observe("start_plan", "rejected")
			return false, err
		}
		if !ok {
			c.observe("start_plan", "empty_catalog")
			return false, nil
		}
		chosen = found
	default:
		c.observe("start_plan", "empty_catalog")
		return false, nil
	}

	c.mu.Lock()
	if c.committing != 0 {
		c.mu.Unlock()
		c.observe("start_plan", "committing")
		return false, ErrCheckoutCommitting
	}
	if c.session == nil {
		c.pending = &chosen
		c.openLocked(ModalAuth, AuthPayload{Mode: AuthModePurchase, Service: &chosen})
		c.mu.Unlock()
		c.observe("start_plan", "awaiting_auth")
		return true, nil
	}
	c.view = ViewDashboard
	c.mu.Unlock()

	c.observe("start_plan", "dashboard")
	return true, nil
}

// ProceedToPayment opens the checkout modal for method. Unsupported methods
// leave the active modal untouched and return ErrUnsupportedPaymentMethod.
func (c *Controller) ProceedToPayment(method PaymentMethod, registration domain.RegistrationData, service domain.Offering) (PaymentPayload, error) {
	kind, ok := method.Modal()
	if !ok {
		c.observe("proceed_to_payment", "unsupported_method")
		return PaymentPayload{}, fmt.Errorf("%w: %q", ErrUnsupportedPaymentMethod, method)
	}

	c.mu.Lock()
	if c.committing != 0 {
		c.mu.Unlock()
		c.observe("proceed_to_payment", "committing")
		return PaymentPayload{}, ErrCheckoutCommitting
	}
	payload := PaymentPayload{
		Method:       method,
		Registration: registration,
		Service:      service,
		modal:        kind,
		commit:       c,
	}
	c.modal = kind
	c.generation++
	payload.Generation = c.generation
	c.payload = payload
	c.mu.Unlock()

	c.observe("proceed_to_payment", kind.String())
	return payload, nil
}

func (c *Controller) claimPayment(generation uint64) error {
	c.mu.Lock()
	if generation != c.generation || !c.modal.IsPayment() {
		c.mu.Unlock()
		c.observe("claim_payment", "stale")
		return ErrStaleGeneration
	}
	if c.committing != 0 && c.committing != generation {
		c.mu.Unlock()
		c.observe("claim_payment", "committing")
		return ErrCheckoutCommitting
	}
	c.committing = generation
	c.mu.Unlock()

	c.observe("claim_payment", "claimed")
	return nil
}

func (c *Controller) releasePayment(generation uint64) {
	c.mu.Lock()
	released := c.committing == generation
	if released {
		c.committing = 0
	}
	c.mu.Unlock()

	if released {
		c.observe("release_payment", "released")
	}
}

func (c *Controller) completePayment(generation uint64, identity domain.Identity) error {
	c.mu.Lock()
	if generation != c.generation || !c.modal.IsPayment() ||
		(c.committing != 0 && c.committing != generation) {
		c.mu.Unlock()
		c.observe("complete_payment", "stale")
		return ErrStaleGeneration
	}
	c.committing = 0
	if p, ok := c.payload.(PaymentPayload); ok {
		service := p.Service
		c.purchased = &service
	}
	c.registerLocked(identity)
	c.mu.Unlock()

	c.observe("complete_payment", "entitled")
	return nil
}

// LoginSuccess signs identity in. A pending purchase is cleared and the visitor
// lands on the dashboard without a payment step; otherwise admins land on the
// admin panel and clients on the dashboard.
func (c *Controller) LoginSuccess(identity domain.Identity) error {
	c.mu.Lock()
	if c.committing != 0 {
		c.mu.Unlock()
		c.observe("login_success", "committing")
		return ErrCheckoutCommitting
	}
	id := identity
	c.session = &id
	outcome := "dashboard"
	if c.pending != nil {
		c.pending = nil
		c.view = ViewDashboard
		outcome = "pending_purchase_cleared"
	} else if identity.IsAdmin {
		c.view = ViewAdmin
		outcome = "admin"
	} else {
		c.view = ViewDashboard
	}
	c.dismissLocked()
	c.mu.Unlock()

	c.observe("login_success", outcome)
	return nil
}

// RegisterSuccess signs a newly registered identity in. Registration always
// lands on the dashboard, whatever the role.
func (c *Controller) RegisterSuccess(identity domain.Identity) error {
	c.mu.Lock()
	if c.committing != 0 {
		c.mu.Unlock()
		c.observe("register_success", "committing")
		return ErrCheckoutCommitting
	}
	c.registerLocked(identity)
	c.mu.Unlock()

	c.observe("register_success", "dashboard")
	return nil
}

func (c *Controller) registerLocked(identity domain.Identity) {
	id := identity
	c.session = &id
	c.pending = nil
	c.view = ViewDashboard
	c.dismissLocked()
}

// dismissLocked closes the modal without touching the pending purchase.
func (c *Controller) dismissLocked() {
	c.modal = ModalNone
	c.payload = nil
	c.generation++
}

// Logout resets every piece of state and runs the logout hook.
func (c *Controller) Logout() error {
	c.mu.Lock()
	if c.committing != 0 {
		c.mu.Unlock()
		c.observe("logout", "committing")
		return ErrCheckoutCommitting
	}
	c.session = nil
	c.view = ViewMain
	c.pending = nil
	c.purchased = nil
	c.artifacts = [artifactSlots]*Artifact{}
	c.modal = ModalNone
	c.payload = nil
	c.generation++
	hook := c.onLogout
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
	c.observe("logout", "main")
	return nil
}

// Navigate switches the top-level view. The dashboard needs a client session
// and the admin panel an admin session.
func (c *Controller) Navigate(view View) error {
	c.mu.Lock()
	allowed := false
	switch view {
	case ViewMain:
		allowed = true
	case ViewDashboard:
		allowed = c.session != nil && !c.session.IsAdmin
	case ViewAdmin:
		allowed = c.session != nil && c.session.IsAdmin
	}
	if allowed {
		c.view = view
	}
	c.mu.Unlock()

	if !allowed {
		c.observe("navigate", "rejected")
		return fmt.Errorf("%w: %s", ErrViewNotAllowed, view)
	}
	c.observe("navigate", view.String())
	return nil
}

// RecordArtifact stores approved tool output in its slot, replacing any
// unconsumed artifact of the same kind. Without a session the artifact is
// dropped and false is returned.
func (c *Controller) RecordArtifact(artifact Artifact) bool {
	if !artifact.Kind.Valid() {
		c.observe("record_artifact", "rejected")
		return false
	}

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		c.observe("record_artifact", "dropped")
		return false
	}
	a := artifact
	c.artifacts[artifact.Kind] = &a
	c.mu.Unlock()

	c.observe("record_artifact", artifact.Kind.String())
	return true
}

// ConsumeArtifact returns and clears the artifact in slot kind.
func (c *Controller) ConsumeArtifact(kind ArtifactKind) (Artifact, bool) {
	if !kind.Valid() {
		return Artifact{}, false
	}

	c.mu.Lock()
	a := c.artifacts[kind]
	c.artifacts[kind] = nil
	c.mu.Unlock()

	if a == nil {
		c.observe("consume_artifact", "empty")
		return Artifact{}, false
	}
	c.observe("consume_artifact", kind.String())
	return *a, true
}

// Payload returns the stored payload when it belongs to the active modal.
func (c *Controller) Payload() (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activePayloadLocked()
}

func (c *Controller) activePayloadLocked() (Payload, bool) {
	if c.payload == nil || c.modal == ModalNone || c.payload.Kind() != c.modal {
		return nil, false
	}
	return c.payload, true
}

// IsCurrent reports whether generation is still the live flow generation.
func (c *Controller) IsCurrent(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return generation == c.generation
}

// Session returns the signed-in identity.
func (c *Controller) Session() (domain.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return domain.Identity{}, false
	}
	return *c.session, true
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Session         *domain.Identity
	Modal           ModalKind
	Payload         Payload
	PendingPurchase *domain.Offering
	Purchased       *domain.Offering
	View            View
	Stage           Stage
	Artifacts       map[ArtifactKind]Artifact
	Generation      uint64
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Modal:      c.modal,
		View:       c.view,
		Stage:      c.stageLocked(),
		Artifacts:  make(map[ArtifactKind]Artifact),
		Generation: c.generation,
	}
	if c.session != nil {
		s := *c.session
		snap.Session = &s
	}
	if c.pending != nil {
		p := *c.pending
		snap.PendingPurchase = &p
	}
	if c.purchased != nil {
		p := *c.purchased
		snap.Purchased = &p
	}
	if p, ok := c.activePayloadLocked(); ok {
		snap.Payload = p
	}
	for i, a := range c.artifacts {
		if a != nil {
			snap.Artifacts[ArtifactKind(i)] = *a
		}
	}
	return snap
}

func (c *Controller) stageLocked() Stage {
	if c.session == nil {
		switch {
		case c.modal.IsPayment():
			return StageAwaitingPayment
		case c.pending != nil:
			return StageAwaitingAuth
		}
		return StageAnonymous
	}
	switch {
	case c.session.IsAdmin && c.view == ViewAdmin:
		return StageAdmin
	case c.purchased != nil:
		return StageEntitled
	}
	return StageAuthenticated
}

// Now returns the controller clock time.
func (c *Controller) Now() time.Time {
	return c.now()
}

func (c *Controller) observe(operation, outcome string) {
	if c.observer != nil {
		c.observer(operation, outcome)
	}
}
