package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/flow"
)

var (
	// ErrInvalidRequest is returned when the checkout lacks the service or the buyer email.
	ErrInvalidRequest = errors.New("payment: incomplete checkout request")
	// ErrNoProvider is returned when no provider serves a checkout modal.
	ErrNoProvider = errors.New("payment: no provider for modal")
)

// Request is a checkout submitted from a payment modal.
type Request struct {
	Method       flow.PaymentMethod
	Service      domain.Offering
	Registration domain.RegistrationData
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Service.ID) == "" || strings.TrimSpace(r.Registration.Email) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// Receipt confirms a processed checkout.
type Receipt struct {
	Provider  string    `json:"provider"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	PaidAt    time.Time `json:"paidAt"`
}

// Provider processes checkouts for one payment modal.
type Provider interface {
	Name() string
	// AutoStart reports whether processing begins as soon as the modal opens.
	AutoStart() bool
	Process(ctx context.Context, req Request) (Receipt, error)
}

// simulated waits for a fixed delay and then confirms the payment.
type simulated struct {
	name      string
	prefix    string
	delay     time.Duration
	autoStart bool
	now       func() time.Time
}

// NewStripeProvider simulates a card checkout.
func NewStripeProvider(delay time.Duration) Provider {
	return &simulated{name: "stripe", prefix: "pi_", delay: delay, now: time.Now}
}

// NewQRProvider simulates a wallet transfer confirmed by QR scan.
func NewQRProvider(delay time.Duration) Provider {
	return &simulated{name: "qr", prefix: "qr_", delay: delay, now: time.Now}
}

// NewMercadoPagoProvider simulates the redirect checkout, which starts on its own.
func NewMercadoPagoProvider(delay time.Duration) Provider {
	return &simulated{name: "mercadopago", prefix: "mp_", delay: delay, autoStart: true, now: time.Now}
}

func (s *simulated) Name() string    { return s.name }
func (s *simulated) AutoStart() bool { return s.autoStart }

func (s *simulated) Process(ctx context.Context, req Request) (Receipt, error) {
	if err := req.validate(); err != nil {
		return Receipt{}, err
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	case <-timer.C:
	}

	currency := req.Service.Currency
	if currency == "" {
		currency = "USD"
	}
	return Receipt{
		Provider:  s.name,
		Method:    string(req.Method),
		Reference: s.prefix + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount:    req.Service.Amount,
		Currency:  currency,
		PaidAt:    s.now().UTC(),
	}, nil
}
