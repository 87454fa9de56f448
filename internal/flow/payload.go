package flow

import (
	"context"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// Payload is the data attached to an open modal. Each modal kind has its own variant.
type Payload interface {
	Kind() ModalKind
	isPayload()
}

// AuthMode tells the auth modal whether it was opened to complete a purchase.
type AuthMode string

const (
	AuthModeLogin    AuthMode = "login"
	AuthModePurchase AuthMode = "purchase"
)

// AuthPayload accompanies the auth modal.
type AuthPayload struct {
	Mode    AuthMode
	Service *domain.Offering
}

func (AuthPayload) Kind() ModalKind { return ModalAuth }
func (AuthPayload) isPayload()      {}

// PaymentPayload accompanies the three checkout modals.
type PaymentPayload struct {
	Method       PaymentMethod
	Registration domain.RegistrationData
	Service      domain.Offering
	// Generation is the flow generation the checkout was opened in.
	Generation uint64

	modal  ModalKind
	commit *Controller
}

func (p PaymentPayload) Kind() ModalKind { return p.modal }
func (PaymentPayload) isPayload()        {}

// Claim reserves the checkout before its account and purchase are written.
// Until Complete or Release, transitions that would supersede it fail with
// ErrCheckoutCommitting. It returns ErrStaleGeneration when the checkout has
// already been closed or superseded.
func (p PaymentPayload) Claim() error {
	if p.commit == nil {
		return ErrStaleGeneration
	}
	return p.commit.claimPayment(p.Generation)
}

// Release gives up a claim whose writes failed. The checkout modal stays open.
func (p PaymentPayload) Release() {
	if p.commit != nil {
		p.commit.releasePayment(p.Generation)
	}
}

// Complete signs in the registered identity and records the purchase. It
// returns ErrStaleGeneration when the checkout has been closed or superseded.
func (p PaymentPayload) Complete(identity domain.Identity) error {
	if p.commit == nil {
		return ErrStaleGeneration
	}
	return p.commit.completePayment(p.Generation, identity)
}

// ServiceUpdatePayload accompanies the request-service-update modal.
type ServiceUpdatePayload struct {
	Service    domain.ClientService
	OnSaveNote func(ctx context.Context, updateType, message string) error
}

func (ServiceUpdatePayload) Kind() ModalKind { return ModalRequestServiceUpdate }
func (ServiceUpdatePayload) isPayload()      {}

// EditPlanPayload accompanies the admin edit-service-plan modal.
type EditPlanPayload struct {
	Plan   domain.Offering
	OnSave func(ctx context.Context, plan domain.Offering) error
}

func (EditPlanPayload) Kind() ModalKind { return ModalEditServicePlan }
func (EditPlanPayload) isPayload()      {}

// GatewayPayload accompanies the admin configure-payment-gateway modal.
type GatewayPayload struct {
	Gateway domain.PaymentGateway
	OnSave  func(ctx context.Context, gateway domain.PaymentGateway) error
}

func (GatewayPayload) Kind() ModalKind { return ModalConfigurePaymentGateway }
func (GatewayPayload) isPayload()      {}
