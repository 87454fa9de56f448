package dto

import (
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// OfferingResponse is a catalog entry.
type OfferingResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Price       string             `json:"price"`
	Amount      float64            `json:"amount"`
	Currency    string             `json:"currency"`
	Description string             `json:"description"`
	Features    []string           `json:"features"`
	SupportNote string             `json:"supportNote,omitempty"`
	CTAText     string             `json:"ctaText,omitempty"`
	Type        domain.ServiceType `json:"type"`
	Duration    string             `json:"duration,omitempty"`
	Category    string             `json:"category,omitempty"`
	Active      bool               `json:"active"`
}

// NewOfferingResponse maps an offering.
func NewOfferingResponse(o domain.Offering) OfferingResponse {
	features := o.Features
	if features == nil {
		features = []string{}
	}
	return OfferingResponse{
		ID: o.ID, Title: o.Title, Price: o.Price, Amount: o.Amount, Currency: o.Currency,
		Description: o.Description, Features: features, SupportNote: o.SupportNote, CTAText: o.CTAText,
		Type: o.Type, Duration: o.Duration, Category: o.Category, Active: o.Active,
	}
}

// NewOfferingList maps offerings.
func NewOfferingList(list []domain.Offering) []OfferingResponse {
	out := make([]OfferingResponse, 0, len(list))
	for _, o := range list {
		out = append(out, NewOfferingResponse(o))
	}
	return out
}

// PlanRequest is the admin plan form. Nil fields keep the current value.
type PlanRequest struct {
	Title       *string             `json:"title"`
	Price       *string             `json:"price"`
	Amount      *float64            `json:"amount"`
	Currency    *string             `json:"currency"`
	Description *string             `json:"description"`
	Features    []string            `json:"features"`
	SupportNote *string             `json:"supportNote"`
	CTAText     *string             `json:"ctaText"`
	Type        *domain.ServiceType `json:"type"`
	Duration    *string             `json:"duration"`
	Category    *string             `json:"category"`
	Active      *bool               `json:"active"`
}

// Apply overlays the request on current.
func (r PlanRequest) Apply(current domain.Offering) domain.Offering {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&current.Title, r.Title)
	set(&current.Price, r.Price)
	set(&current.Currency, r.Currency)
	set(&current.Description, r.Description)
	set(&current.SupportNote, r.SupportNote)
	set(&current.CTAText, r.CTAText)
	set(&current.Duration, r.Duration)
	set(&current.Category, r.Category)
	if r.Amount != nil {
		current.Amount = *r.Amount
	}
	if r.Features != nil {
		current.Features = r.Features
	}
	if r.Type != nil {
		current.Type = *r.Type
	}
	if r.Active != nil {
		current.Active = *r.Active
	}
	return current
}

// HireRequest payload for POST /services/hire.
type HireRequest struct {
	ServiceID string `json:"serviceId"`
	Notes     string `json:"notes"`
}

// ClientServiceResponse is a hired service.
type ClientServiceResponse struct {
	ID                    string                  `json:"id"`
	ClientID              string                  `json:"clientId"`
	OfferingID            *string                 `json:"serviceId,omitempty"`
	Name                  string                  `json:"name"`
	ServiceType           domain.ServiceType      `json:"serviceType"`
	Status                domain.EngagementStatus `json:"status"`
	Price                 float64                 `json:"price"`
	PaymentStatus         domain.PaymentStatus    `json:"paymentStatus"`
	Notes                 *string                 `json:"notes,omitempty"`
	OptimizedCVText       *string                 `json:"optimizedCvText,omitempty"`
	CreatedAt             time.Time               `json:"createdAt"`
	UpdatedAt             time.Time               `json:"updatedAt"`
	EstimatedDeliveryDate *time.Time              `json:"estimatedDeliveryDate,omitempty"`
	ClientName            string                  `json:"clientName,omitempty"`
	ClientEmail           string                  `json:"clientEmail,omitempty"`
}

// NewClientServiceResponse maps a hired service.
func NewClientServiceResponse(s *domain.ClientService) ClientServiceResponse {
	return ClientServiceResponse{
		ID: s.ID, ClientID: s.ClientID, OfferingID: s.OfferingID, Name: s.Name, ServiceType: s.ServiceType,
		Status: s.Status, Price: s.Price, PaymentStatus: s.PaymentStatus, Notes: s.Notes,
		OptimizedCVText: s.OptimizedCVText, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
		EstimatedDeliveryDate: s.EstimatedDeliveryDate, ClientName: s.ClientName, ClientEmail: s.ClientEmail,
	}
}

// NewClientServiceList maps hired services.
func NewClientServiceList(list []domain.ClientService) []ClientServiceResponse {
	out := make([]ClientServiceResponse, 0, len(list))
	for i := range list {
		out = append(out, NewClientServiceResponse(&list[i]))
	}
	return out
}

// RequestUpdateRequest payload for POST /clients/services/:serviceId/request-update.
type RequestUpdateRequest struct {
	UpdateType string `json:"updateType"`
	Message    string `json:"message"`
}

// UpdateRequestResponse acknowledges an update request.
type UpdateRequestResponse struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"serviceId"`
	UpdateType string    `json:"updateType"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}
