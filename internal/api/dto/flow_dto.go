package dto

import (
	"time"

	"github.com/spec-kit/coaching-service/internal/advisor"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/flow"
)

// OpenModalRequest payload for POST /flow/sessions/:id/modal.
type OpenModalRequest struct {
	Modal     string `json:"modal"`
	ServiceID string `json:"serviceId"`
	PlanID    string `json:"planId"`
	GatewayID string `json:"gatewayId"`
}

// SubmitModalRequest payload for POST /flow/sessions/:id/modal/submit.
type SubmitModalRequest struct {
	UpdateType string          `json:"updateType"`
	Message    string          `json:"message"`
	Plan       *PlanRequest    `json:"plan"`
	Gateway    *GatewayRequest `json:"gateway"`
}

// StartPlanRequest payload for POST /flow/sessions/:id/start-plan.
type StartPlanRequest struct {
	ServiceID string `json:"serviceId"`
}

// FlowRegisterRequest is the registration form, optionally routed through checkout.
type FlowRegisterRequest struct {
	RegisterRequest
	PaymentMethod string `json:"paymentMethod"`
	ServiceID     string `json:"serviceId"`
}

// NavigateRequest payload for POST /flow/sessions/:id/navigate.
type NavigateRequest struct {
	View string `json:"view"`
}

// ArtifactRequest carries approved tool output.
type ArtifactRequest struct {
	Text string `json:"text"`
}

// OptimizeCVRequest payload for the CV tool.
type OptimizeCVRequest struct {
	CVText string `json:"cvText"`
}

// ProposalRequest payload for the proposal tool.
type ProposalRequest struct {
	Profile        advisor.FreelancerProfile `json:"profile"`
	JobDescription string                    `json:"jobDescription"`
}

// ChatRequest is one user chat turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// RegistrationSummary echoes a checkout registration without the password.
type RegistrationSummary struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// PayloadResponse is the modal payload. Only the fields of its kind are set.
type PayloadResponse struct {
	Kind          flow.ModalKind         `json:"kind"`
	Mode          flow.AuthMode          `json:"mode,omitempty"`
	Service       *OfferingResponse      `json:"service,omitempty"`
	Method        flow.PaymentMethod     `json:"method,omitempty"`
	Registration  *RegistrationSummary   `json:"registration,omitempty"`
	Generation    uint64                 `json:"generation,omitempty"`
	ClientService *ClientServiceResponse `json:"clientService,omitempty"`
	Plan          *OfferingResponse      `json:"plan,omitempty"`
	Gateway       *GatewayResponse       `json:"gateway,omitempty"`
}

// NewPayloadResponse maps a modal payload; nil stays nil.
func NewPayloadResponse(p flow.Payload) *PayloadResponse {
	if p == nil {
		return nil
	}
	resp := &PayloadResponse{Kind: p.Kind()}
	switch v := p.(type) {
	case flow.AuthPayload:
		resp.Mode = v.Mode
		if v.Service != nil {
			o := NewOfferingResponse(*v.Service)
			resp.Service = &o
		}
	case flow.PaymentPayload:
		o := NewOfferingResponse(v.Service)
		resp.Service = &o
		resp.Method = v.Method
		resp.Generation = v.Generation
		resp.Registration = &RegistrationSummary{FullName: v.Registration.FullName, Email: v.Registration.Email, Phone: v.Registration.Phone}
	case flow.ServiceUpdatePayload:
		s := NewClientServiceResponse(&v.Service)
		resp.ClientService = &s
	case flow.EditPlanPayload:
		o := NewOfferingResponse(v.Plan)
		resp.Plan = &o
	case flow.GatewayPayload:
		g := NewGatewayResponse(v.Gateway)
		resp.Gateway = &g
	}
	return resp
}

// ArtifactResponse is approved tool output.
type ArtifactResponse struct {
	ID          string                  `json:"id"`
	Kind        string                  `json:"kind"`
	Name        string                  `json:"name"`
	Status      domain.EngagementStatus `json:"status"`
	ServiceType domain.ServiceType      `json:"serviceType"`
	Text        string                  `json:"text"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// NewArtifactResponse maps an artifact.
func NewArtifactResponse(a flow.Artifact) ArtifactResponse {
	return ArtifactResponse{
		ID: a.ID, Kind: a.Kind.String(), Name: a.Name, Status: a.Status, ServiceType: a.ServiceType, Text: a.Text, CreatedAt: a.CreatedAt,
	}
}

// SessionResponse is the full state of a flow session.
type SessionResponse struct {
	ID              string                      `json:"id"`
	CreatedAt       time.Time                   `json:"createdAt"`
	Session         *domain.Identity            `json:"session"`
	Token           string                      `json:"token,omitempty"`
	Modal           flow.ModalKind              `json:"modal"`
	Payload         *PayloadResponse            `json:"payload"`
	PendingPurchase *OfferingResponse           `json:"pendingPurchase"`
	Purchased       *OfferingResponse           `json:"purchased"`
	View            flow.View                   `json:"view"`
	Stage           flow.Stage                  `json:"stage"`
	Artifacts       map[string]ArtifactResponse `json:"artifacts"`
	Generation      uint64                      `json:"generation"`
	Checkout        flow.Checkout               `json:"checkout"`
}

// NewSessionResponse maps a flow session.
func NewSessionResponse(s *flow.Session) SessionResponse {
	snap := s.Snapshot()
	resp := SessionResponse{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Session:    snap.Session,
		Token:      s.Token(),
		Modal:      snap.Modal,
		Payload:    NewPayloadResponse(snap.Payload),
		View:       snap.View,
		Stage:      snap.Stage,
		Artifacts:  make(map[string]ArtifactResponse, len(snap.Artifacts)),
		Generation: snap.Generation,
		Checkout:   s.Checkout(),
	}
	if snap.PendingPurchase != nil {
		o := NewOfferingResponse(*snap.PendingPurchase)
		resp.PendingPurchase = &o
	}
	if snap.Purchased != nil {
		o := NewOfferingResponse(*snap.Purchased)
		resp.Purchased = &o
	}
	for kind, a := range snap.Artifacts {
		resp.Artifacts[kind.String()] = NewArtifactResponse(a)
	}
	return resp
}
