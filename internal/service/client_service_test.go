package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/flow"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

func TestClientPortalService_UpdateProfile(t *testing.T) {
	f := newFixture(t, nil)
	user := f.register(t, "profile@example.com").User

	updated, err := f.portal.UpdateProfile(context.Background(), user, " New Name ", " 555-1234 ")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-1234", *updated.Phone)

	stored, err := f.store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.FullName)

	_, err = f.portal.UpdateProfile(context.Background(), user, "  ", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestClientPortalService_RequestUpdate(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.register(t, "owner@example.com").User
	stranger := f.register(t, "stranger@example.com").User
	svc, err := f.catalog.Hire(context.Background(), owner, HireInput{OfferingID: "cv-optimization"})
	require.NoError(t, err)

	req, err := f.portal.RequestUpdate(context.Background(), owner, svc.ID, "status", "Any news?")
	require.NoError(t, err)
	assert.Equal(t, "PENDING", req.Status)
	assert.Len(t, f.store.UpdateRequests(), 1)
	assert.Contains(t, f.events.types(), events.EventUpdateRequested)

	_, err = f.portal.RequestUpdate(context.Background(), stranger, svc.ID, "status", "Any news?")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = f.portal.RequestUpdate(context.Background(), owner, svc.ID, "", "")
	require.Error(t, err)
	assert.Len(t, apperrors.ToDomainError(err).Details, 2)
}

func TestClientPortalService_SaveArtifact(t *testing.T) {
	f := newFixture(t, nil)
	user := f.register(t, "artifact@example.com").User

	cv, err := flow.NewArtifact(flow.ArtifactOptimizedCV, "Better CV", time.Now())
	require.NoError(t, err)
	saved, err := f.portal.SaveArtifact(context.Background(), user, cv)
	require.NoError(t, err)
	require.NotNil(t, saved.OptimizedCVText)
	assert.Equal(t, "Better CV", *saved.OptimizedCVText)
	assert.Equal(t, domain.EngagementStatusCVReady, saved.Status)
	assert.Equal(t, domain.PaymentStatusPaid, saved.PaymentStatus)

	eval, err := flow.NewArtifact(flow.ArtifactFreelancerEvaluation, "Strong profile", time.Now())
	require.NoError(t, err)
	saved, err = f.portal.SaveArtifact(context.Background(), user, eval)
	require.NoError(t, err)
	assert.Nil(t, saved.OptimizedCVText)
	require.NotNil(t, saved.Notes)
	assert.Equal(t, "Strong profile", *saved.Notes)

	list, err := f.portal.ListServices(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.ServiceTypeFreelancer, list[0].ServiceType)
}
