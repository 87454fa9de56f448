package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// DefaultCatalogNote accompanies the built-in catalog.
const DefaultCatalogNote = "Default catalog served because the services table does not exist yet"

// OfferingCache caches the active catalog.
type OfferingCache interface {
	Get(ctx context.Context) ([]domain.Offering, bool, error)
	Set(ctx context.Context, offerings []domain.Offering) error
	Invalidate(ctx context.Context) error
}

// Catalog is the public offering list.
type Catalog struct {
	Offerings []domain.Offering
	Note      string
}

// CatalogService lists offerings and records hires.
type CatalogService struct {
	offerings  repository.OfferingRepository
	hired      repository.ClientServiceRepository
	cache      OfferingCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	leadTime   time.Duration
	now        func() time.Time
}

// CatalogDependencies groups collaborators of the catalog service.
type CatalogDependencies struct {
	OfferingRepo      repository.OfferingRepository
	ClientServiceRepo repository.ClientServiceRepository
	Cache             OfferingCache
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewCatalogService builds the service. Hired services are due leadDays after hiring.
func NewCatalogService(deps CatalogDependencies, leadDays int) *CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if leadDays <= 0 {
		leadDays = 7
	}
	return &CatalogService{
		offerings:  deps.OfferingRepo,
		hired:      deps.ClientServiceRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		leadTime:   time.Duration(leadDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

// ListAvailable returns the active offerings.
func (s *CatalogService) ListAvailable(ctx context.Context) (*Catalog, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		} else if ok {
			return &Catalog{Offerings: cached}, nil
		}
	}

	list, err := s.offerings.ListActive(ctx)
	if err != nil {
		if repository.IsUndefinedTable(err) {
			s.logger.Warn("available_services table missing, serving default catalog")
			return &Catalog{Offerings: DefaultCatalog(), Note: DefaultCatalogNote}, nil
		}
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, list); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return &Catalog{Offerings: list}, nil
}

// DefaultOffering returns the first active offering, used when a plan is
// started without choosing one.
func (s *CatalogService) DefaultOffering(ctx context.Context) (domain.Offering, bool, error) {
	catalog, err := s.ListAvailable(ctx)
	if err != nil {
		return domain.Offering{}, false, err
	}
	if len(catalog.Offerings) == 0 {
		return domain.Offering{}, false, nil
	}
	return catalog.Offerings[0], true, nil
}

// GetOffering resolves an offering by id, falling back to the built-in
// catalog when the table is missing.
func (s *CatalogService) GetOffering(ctx context.Context, id string) (*domain.Offering, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewValidationError("serviceId is required", map[string]any{"field": "serviceId"})
	}
	offering, err := s.offerings.GetByID(ctx, id)
	if err == nil {
		return offering, nil
	}
	if repository.IsUndefinedTable(err) {
		if o, ok := findDefaultOffering(id); ok {
			return o, nil
		}
	}
	if errors.Is(err, pgx.ErrNoRows) || repository.IsUndefinedTable(err) {
		return nil, apperrors.NewNotFound("service", map[string]any{"serviceId": id})
	}
	return nil, apperrors.MapError(err)
}

// HireInput describes a hire request.
type HireInput struct {
	OfferingID string
	Notes      string
	Paid       bool
}

// Hire records that user hired an offering.
func (s *CatalogService) Hire(ctx context.Context, user *domain.User, in HireInput) (*domain.ClientService, error) {
	offering, err := s.GetOffering(ctx, in.OfferingID)
	if err != nil {
		return nil, err
	}

	due := s.now().Add(s.leadTime)
	offeringID := offering.ID
	svc := &domain.ClientService{
		ClientID:              user.ID,
		OfferingID:            &offeringID,
		Name:                  offering.Title,
		ServiceType:           offering.Type,
		Status:                domain.EngagementStatusPending,
		Price:                 offering.Amount,
		PaymentStatus:         domain.PaymentStatusPending,
		EstimatedDeliveryDate: &due,
		ClientName:            user.FullName,
		ClientEmail:           user.Email,
	}
	if in.Paid {
		svc.PaymentStatus = domain.PaymentStatusPaid
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		svc.Notes = &notes
	}
	if err := s.hired.Create(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.EventServiceHired, user, events.ServiceHiredPayload{
		ServiceID:     svc.ID,
		OfferingID:    offeringID,
		Name:          svc.Name,
		Price:         svc.Price,
		PaymentStatus: svc.PaymentStatus,
	})
	return svc, nil
}

// GetHired returns a hired service owned by user.
func (s *CatalogService) GetHired(ctx context.Context, user *domain.User, id string) (*domain.ClientService, error) {
	svc, err := s.hired.GetForClient(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service", map[string]any{"serviceId": id})
		}
		return nil, apperrors.MapError(err)
	}
	return svc, nil
}
