package events

import (
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered    EventType = "account_registered"
	EventServiceHired         EventType = "service_hired"
	EventServiceStatusChanged EventType = "service_status_changed"
	EventUpdateRequested      EventType = "update_requested"
	EventPaymentCompleted     EventType = "payment_completed"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string          `json:"user_id,omitempty"`
	Email  string          `json:"email,omitempty"`
	Role   domain.UserRole `json:"role,omitempty"`
}

// ActorFromUser builds an Actor for user.
func ActorFromUser(user *domain.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ServiceHiredPayload payload.
type ServiceHiredPayload struct {
	ServiceID     string               `json:"service_id"`
	OfferingID    string               `json:"offering_id"`
	Name          string               `json:"name"`
	Price         float64              `json:"price"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

// ServiceStatusChangedPayload payload.
type ServiceStatusChangedPayload struct {
	ServiceID   string                  `json:"service_id"`
	Name        string                  `json:"name"`
	ClientEmail string                  `json:"client_email"`
	NewStatus   domain.EngagementStatus `json:"new_status"`
	Notes       string                  `json:"notes,omitempty"`
}

// UpdateRequestedPayload payload.
type UpdateRequestedPayload struct {
	RequestID  string `json:"request_id"`
	ServiceID  string `json:"service_id"`
	UpdateType string `json:"update_type"`
	Preview    string `json:"message_preview"`
}

// PaymentCompletedPayload payload.
type PaymentCompletedPayload struct {
	Provider   string  `json:"provider"`
	Reference  string  `json:"reference"`
	OfferingID string  `json:"offering_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}
