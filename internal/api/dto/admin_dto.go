package dto

import (
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// ClientSummaryResponse is an admin client row.
type ClientSummaryResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Phone         *string   `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	TotalServices int       `json:"totalServices"`
}

// NewClientSummaryList maps client rows.
func NewClientSummaryList(list []domain.ClientSummary) []ClientSummaryResponse {
	out := make([]ClientSummaryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ClientSummaryResponse{
			ID: c.ID, Email: c.Email, FullName: c.FullName, Phone: c.Phone, CreatedAt: c.CreatedAt, TotalServices: c.TotalServices,
		})
	}
	return out
}

// UpdateStatusRequest payload for PATCH /admin/services/:serviceId/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// OverviewResponse holds the admin counters.
type OverviewResponse struct {
	TotalClients       int64   `json:"totalClients"`
	TotalServices      int64   `json:"totalServices"`
	PendingServices    int64   `json:"pendingServices"`
	InProgressServices int64   `json:"inProgressServices"`
	CompletedServices  int64   `json:"completedServices"`
	TotalRevenue       float64 `json:"totalRevenue"`
}

// MonthlyRevenueResponse is revenue for one month.
type MonthlyRevenueResponse struct {
	Month         string  `json:"month"`
	Revenue       float64 `json:"revenue"`
	ServicesCount int64   `json:"servicesCount"`
}

// StatsResponse is the admin dashboard.
type StatsResponse struct {
	Overview       OverviewResponse         `json:"overview"`
	MonthlyRevenue []MonthlyRevenueResponse `json:"monthlyRevenue"`
}

// NewStatsResponse maps dashboard statistics.
func NewStatsResponse(overview domain.DashboardOverview, monthly []domain.MonthlyRevenue) StatsResponse {
	resp := StatsResponse{
		Overview: OverviewResponse{
			TotalClients:       overview.TotalClients,
			TotalServices:      overview.TotalServices,
			PendingServices:    overview.PendingServices,
			InProgressServices: overview.InProgressServices,
			CompletedServices:  overview.CompletedServices,
			TotalRevenue:       overview.TotalRevenue,
		},
		MonthlyRevenue: make([]MonthlyRevenueResponse, 0, len(monthly)),
	}
	for _, m := range monthly {
		resp.MonthlyRevenue = append(resp.MonthlyRevenue, MonthlyRevenueResponse{
			Month: m.Month.Format("2006-01"), Revenue: m.Revenue, ServicesCount: m.ServicesCount,
		})
	}
	return resp
}

// GatewayRequest is the admin gateway form.
type GatewayRequest struct {
	Name     string               `json:"name"`
	LogoURL  string               `json:"logoUrl"`
	IsActive bool                 `json:"isActive"`
	Config   domain.GatewayConfig `json:"config"`
}

// Gateway converts the form into a gateway with id.
func (r GatewayRequest) Gateway(id string) domain.PaymentGateway {
	return domain.PaymentGateway{ID: id, Name: r.Name, LogoURL: r.LogoURL, IsActive: r.IsActive, Config: r.Config}
}

// GatewayResponse is a payment gateway.
type GatewayResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	LogoURL   string               `json:"logoUrl,omitempty"`
	IsActive  bool                 `json:"isActive"`
	Config    domain.GatewayConfig `json:"config"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// NewGatewayResponse maps a gateway.
func NewGatewayResponse(g domain.PaymentGateway) GatewayResponse {
	return GatewayResponse{ID: g.ID, Name: g.Name, LogoURL: g.LogoURL, IsActive: g.IsActive, Config: g.Config, UpdatedAt: g.UpdatedAt}
}
