package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/flow"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// ClientPortalService backs the client dashboard.
type ClientPortalService struct {
	users      repository.UserRepository
	services   repository.ClientServiceRepository
	requests   repository.UpdateRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ClientPortalDependencies groups collaborators of the client portal.
type ClientPortalDependencies struct {
	UserRepo          repository.UserRepository
	ClientServiceRepo repository.ClientServiceRepository
	UpdateRequestRepo repository.UpdateRequestRepository
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewClientPortalService builds the service.
func NewClientPortalService(deps ClientPortalDependencies) *ClientPortalService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientPortalService{
		users:      deps.UserRepo,
		services:   deps.ClientServiceRepo,
		requests:   deps.UpdateRequestRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// UpdateProfile changes the display name and phone of user.
func (s *ClientPortalService) UpdateProfile(ctx context.Context, user *domain.User, fullName, phone string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperrors.NewValidationError("fullName is required", map[string]any{"field": "fullName"})
	}
	updated := *user
	updated.FullName = fullName
	updated.Phone = nil
	if p := strings.TrimSpace(phone); p != "" {
		updated.Phone = &p
	}
	if err := s.users.Update(ctx, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return &updated, nil
}

// ListServices returns the services of user, newest first.
func (s *ClientPortalService) ListServices(ctx context.Context, user *domain.User) ([]domain.ClientService, error) {
	list, err := s.services.ListByClient(ctx, user.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// RequestUpdate files an update request on a service owned by user.
func (s *ClientPortalService) RequestUpdate(ctx context.Context, user *domain.User, serviceID, updateType, message string) (*domain.UpdateRequest, error) {
	updateType = strings.TrimSpace(updateType)
	message = strings.TrimSpace(message)
	details := map[string]any{}
	if updateType == "" {
		details["updateType"] = "required"
	}
	if message == "" {
		details["message"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid update request", details)
	}

	if _, err := s.services.GetForClient(ctx, serviceID, user.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service", map[string]any{"serviceId": serviceID})
		}
		return nil, apperrors.MapError(err)
	}

	req := &domain.UpdateRequest{
		ServiceID:  serviceID,
		ClientID:   user.ID,
		UpdateType: updateType,
		Message:    message,
		Status:     "PENDING",
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.EventUpdateRequested, user, events.UpdateRequestedPayload{
		RequestID:  req.ID,
		ServiceID:  serviceID,
		UpdateType: updateType,
		Preview:    Preview(message, 140),
	})
	return req, nil
}

// SaveArtifact appends an approved AI tool artifact to the service list of user.
func (s *ClientPortalService) SaveArtifact(ctx context.Context, user *domain.User, artifact flow.Artifact) (*domain.ClientService, error) {
	text := artifact.Text
	svc := &domain.ClientService{
		ClientID:      user.ID,
		Name:          artifact.Name,
		ServiceType:   artifact.ServiceType,
		Status:        artifact.Status,
		PaymentStatus: domain.PaymentStatusPaid,
		ClientName:    user.FullName,
		ClientEmail:   user.Email,
	}
	if artifact.Kind == flow.ArtifactOptimizedCV {
		svc.OptimizedCVText = &text
	} else {
		svc.Notes = &text
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("artifact saved", zap.String("user_id", user.ID), zap.String("kind", artifact.Kind.String()), zap.String("service_id", svc.ID))
	return svc, nil
}
