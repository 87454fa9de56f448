package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	revenueMonths   = 12
)

// PageRequest is a 1-based page selection.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes a returned page.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
}

func newPagination(p PageRequest, total int64) Pagination {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{CurrentPage: p.Page, TotalPages: pages, TotalItems: total, Limit: p.Limit}
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	Overview domain.DashboardOverview
	Monthly  []domain.MonthlyRevenue
}

// AdminService backs the admin panel.
type AdminService struct {
	users      repository.UserRepository
	services   repository.ClientServiceRepository
	offerings  repository.OfferingRepository
	gateways   repository.GatewayRepository
	reports    repository.ReportRepository
	cache      OfferingCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AdminDependencies groups collaborators of the admin service.
type AdminDependencies struct {
	UserRepo          repository.UserRepository
	ClientServiceRepo repository.ClientServiceRepository
	OfferingRepo      repository.OfferingRepository
	GatewayRepo       repository.GatewayRepository
	ReportRepo        repository.ReportRepository
	Cache             OfferingCache
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		users:      deps.UserRepo,
		services:   deps.ClientServiceRepo,
		offerings:  deps.OfferingRepo,
		gateways:   deps.GatewayRepo,
		reports:    deps.ReportRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListClients pages through client accounts.
func (s *AdminService) ListClients(ctx context.Context, page PageRequest) ([]domain.ClientSummary, Pagination, error) {
	page = page.normalize()
	clients, total, err := s.users.ListClients(ctx, page.Limit, page.offset())
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}
	return clients, newPagination(page, total), nil
}

// ListServices pages through hired services, optionally by status.
func (s *AdminService) ListServices(ctx context.Context, status string, page PageRequest) ([]domain.ClientService, Pagination, error) {
	page = page.normalize()
	filter := repository.ClientServiceFilter{Limit: page.Limit, Offset: page.offset()}
	if status = strings.TrimSpace(status); status != "" {
		st := domain.EngagementStatus(strings.ToUpper(status))
		filter.Status = &st
	}
	list, total, err := s.services.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}
	return list, newPagination(page, total), nil
}

// UpdateServiceStatus moves a hired service to a new admin status.
func (s *AdminService) UpdateServiceStatus(ctx context.Context, actor *domain.User, id string, status domain.EngagementStatus, notes string) (*domain.ClientService, error) {
	if !domain.ValidAdminStatus(status) {
		allowed := make([]string, len(domain.AdminStatuses))
		for i, st := range domain.AdminStatuses {
			allowed[i] = string(st)
		}
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status), "allowed": allowed})
	}

	var notesPtr *string
	if n := strings.TrimSpace(notes); n != "" {
		notesPtr = &n
	}
	svc, err := s.services.UpdateStatus(ctx, id, status, notesPtr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service", map[string]any{"serviceId": id})
		}
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.EventServiceStatusChanged, actor, events.ServiceStatusChangedPayload{
		ServiceID:   svc.ID,
		Name:        svc.Name,
		ClientEmail: svc.ClientEmail,
		NewStatus:   status,
		Notes:       strings.TrimSpace(notes),
	})
	return svc, nil
}

// DashboardStats returns counters and revenue for the last twelve months.
func (s *AdminService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	overview, err := s.reports.Overview(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	monthly, err := s.reports.MonthlyRevenue(ctx, revenueMonths)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &DashboardStats{Overview: *overview, Monthly: monthly}, nil
}

// ListPlans returns every offering, active or not.
func (s *AdminService) ListPlans(ctx context.Context) ([]domain.Offering, error) {
	list, err := s.offerings.ListAll(ctx)
	if err != nil {
		if repository.IsUndefinedTable(err) {
			return DefaultCatalog(), nil
		}
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetPlan returns one offering by id, active or not.
func (s *AdminService) GetPlan(ctx context.Context, id string) (*domain.Offering, error) {
	plan, err := s.offerings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("plan", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return plan, nil
}

// UpdatePlan saves an edited offering and drops the cached catalog.
func (s *AdminService) UpdatePlan(ctx context.Context, plan domain.Offering) (*domain.Offering, error) {
	details := map[string]any{}
	if strings.TrimSpace(plan.ID) == "" {
		details["id"] = "required"
	}
	if strings.TrimSpace(plan.Title) == "" {
		details["title"] = "required"
	}
	if strings.TrimSpace(plan.Price) == "" {
		details["price"] = "required"
	}
	if plan.Amount < 0 {
		details["amount"] = "must not be negative"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid plan", details)
	}

	if _, err := s.offerings.GetByID(ctx, plan.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("plan", map[string]any{"id": plan.ID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.offerings.Update(ctx, &plan); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("catalog cache invalidate failed", zap.Error(err))
		}
	}
	return &plan, nil
}

// ListGateways returns the configurable payment gateways.
func (s *AdminService) ListGateways(ctx context.Context) ([]domain.PaymentGateway, error) {
	list, err := s.gateways.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UpdateGateway saves gateway settings.
func (s *AdminService) UpdateGateway(ctx context.Context, gw domain.PaymentGateway) (*domain.PaymentGateway, error) {
	if strings.TrimSpace(gw.ID) == "" {
		return nil, apperrors.NewValidationError("gateway id is required", map[string]any{"field": "id"})
	}
	current, err := s.gateways.GetByID(ctx, gw.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("gateway", map[string]any{"id": gw.ID})
		}
		return nil, apperrors.MapError(err)
	}
	if strings.TrimSpace(gw.Name) == "" {
		gw.Name = current.Name
	}
	if err := s.gateways.Update(ctx, &gw); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &gw, nil
}
