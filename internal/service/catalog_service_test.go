package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

func TestCatalogService_ListAvailableUsesCache(t *testing.T) {
	f := newFixture(t, nil)

	catalog, err := f.catalog.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Offerings, 2)
	assert.Empty(t, catalog.Note)
	assert.Equal(t, 1, f.cache.sets)

	// A cached read does not reach the repository.
	f.store.OfferingErr = assert.AnError
	catalog, err = f.catalog.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Offerings, 2)
}

func TestCatalogService_MissingTableServesDefaults(t *testing.T) {
	f := newFixture(t, nil)
	f.store.OfferingErr = repotest.ErrUndefinedTable

	catalog, err := f.catalog.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogNote, catalog.Note)
	assert.Len(t, catalog.Offerings, len(DefaultCatalog()))
	assert.Zero(t, f.cache.sets)

	offering, err := f.catalog.GetOffering(context.Background(), "interview-prep")
	require.NoError(t, err)
	assert.Equal(t, "Interview Preparation", offering.Title)

	_, err = f.catalog.GetOffering(context.Background(), "unknown")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestCatalogService_RepositoryFailureIsInternal(t *testing.T) {
	f := newFixture(t, nil)
	f.store.OfferingErr = assert.AnError

	_, err := f.catalog.ListAvailable(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))

	_, ok, err := f.catalog.DefaultOffering(context.Background())
	assert.False(t, ok)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestCatalogService_Hire(t *testing.T) {
	f := newFixture(t, nil)
	user := f.register(t, "hire@example.com").User
	before := time.Now()

	svc, err := f.catalog.Hire(context.Background(), user, HireInput{OfferingID: "cv-optimization", Notes: " rush "})
	require.NoError(t, err)

	assert.Equal(t, "CV Optimization", svc.Name)
	assert.Equal(t, domain.ServiceTypeCV, svc.ServiceType)
	assert.Equal(t, domain.EngagementStatusPending, svc.Status)
	assert.Equal(t, domain.PaymentStatusPending, svc.PaymentStatus)
	assert.Equal(t, 75.0, svc.Price)
	require.NotNil(t, svc.Notes)
	assert.Equal(t, "rush", *svc.Notes)
	require.NotNil(t, svc.EstimatedDeliveryDate)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), *svc.EstimatedDeliveryDate, time.Minute)
	assert.Contains(t, f.events.types(), events.EventServiceHired)

	got, err := f.catalog.GetHired(context.Background(), user, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.ID, got.ID)
}

func TestCatalogService_HireErrors(t *testing.T) {
	f := newFixture(t, nil)
	user := f.register(t, "hire@example.com").User
	other := f.register(t, "other@example.com").User

	_, err := f.catalog.Hire(context.Background(), user, HireInput{OfferingID: "missing"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = f.catalog.Hire(context.Background(), user, HireInput{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	svc, err := f.catalog.Hire(context.Background(), user, HireInput{OfferingID: "all-in-one", Paid: true})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, svc.PaymentStatus)

	_, err = f.catalog.GetHired(context.Background(), other, svc.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
