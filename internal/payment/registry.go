package payment

import (
	"fmt"
	"time"

	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/flow"
)

// Registry resolves the provider behind each checkout modal.
type Registry struct {
	providers map[flow.ModalKind]Provider
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[flow.ModalKind]Provider)}
}

// NewDefaultRegistry wires the simulated providers with the configured delays.
func NewDefaultRegistry(cfg config.PaymentConfig) *Registry {
	r := NewRegistry()
	r.Register(flow.ModalStripePayment, NewStripeProvider(millis(cfg.StripeDelayMillis)))
	r.Register(flow.ModalQRPayment, NewQRProvider(millis(cfg.QRDelayMillis)))
	r.Register(flow.ModalMercadoPagoRedirect, NewMercadoPagoProvider(millis(cfg.MercadoPagoDelayMillis)))
	return r
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Register binds provider to a checkout modal.
func (r *Registry) Register(modal flow.ModalKind, provider Provider) {
	r.providers[modal] = provider
}

// For returns the provider serving modal.
func (r *Registry) For(modal flow.ModalKind) (Provider, error) {
	p, ok := r.providers[modal]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoProvider, modal)
	}
	return p, nil
}
