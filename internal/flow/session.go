package flow

import (
	"context"
	"sync"
	"time"
)

// CheckoutState is the progress of the asynchronous payment of a session.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutSucceeded  CheckoutState = "succeeded"
	CheckoutFailed     CheckoutState = "failed"
	CheckoutCancelled  CheckoutState = "cancelled"
)

// Checkout reports the latest payment attempt of a session.
type Checkout struct {
	State      CheckoutState `json:"state"`
	Provider   string        `json:"provider,omitempty"`
	Reference  string        `json:"reference,omitempty"`
	Error      string        `json:"error,omitempty"`
	Generation uint64        `json:"generation"`
}

// Session is one browser's controller plus the credentials and checkout
// progress that live next to it.
type Session struct {
	*Controller

	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	token    string
	checkout Checkout
	cancel   context.CancelFunc
}

// NewSession wraps controller under id.
func NewSession(id string, controller *Controller, now time.Time) *Session {
	return &Session{
		Controller: controller,
		ID:         id,
		CreatedAt:  now,
		checkout:   Checkout{State: CheckoutIdle},
	}
}

// Token returns the bearer token issued to the signed-in visitor.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken stores the bearer token of the signed-in visitor.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Checkout returns the latest payment attempt.
func (s *Session) Checkout() Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout
}

// BeginCheckout records a new attempt for generation. It reports false when
// an attempt for the same generation is already running.
func (s *Session) BeginCheckout(provider string, generation uint64, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout.State == CheckoutProcessing && s.checkout.Generation == generation {
		return false
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.checkout = Checkout{State: CheckoutProcessing, Provider: provider, Generation: generation}
	return true
}

// FinishCheckout records the outcome of the attempt for generation. Outcomes
// of superseded attempts are ignored.
func (s *Session) FinishCheckout(generation uint64, state CheckoutState, reference, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout.Generation != generation {
		return
	}
	s.checkout.State = state
	s.checkout.Reference = reference
	s.checkout.Error = errMsg
	s.cancel = nil
}

// CancelCheckout stops a running attempt.
func (s *Session) CancelCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.checkout.State == CheckoutProcessing {
		s.checkout.State = CheckoutCancelled
	}
}

// Reset clears credentials and checkout progress.
func (s *Session) Reset() {
	s.CancelCheckout()
	s.mu.Lock()
	s.token = ""
	s.checkout = Checkout{State: CheckoutIdle}
	s.mu.Unlock()
}
