package service

import (
	"errors"

	"github.com/spec-kit/coaching-service/internal/flow"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// flowError maps flow sentinels onto the API error envelope.
func flowError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, flow.ErrViewNotAllowed):
		return apperrors.NewForbidden(err.Error())
	case errors.Is(err, flow.ErrNoSession):
		return apperrors.NewUnauthorized("sign in required")
	case errors.Is(err, flow.ErrCheckoutCommitting):
		return apperrors.NewConflict("the payment is being finalized", nil)
	case errors.Is(err, flow.ErrStaleGeneration):
		return apperrors.NewConflict("the flow has moved on", nil)
	case errors.Is(err, flow.ErrUnknownModal),
		errors.Is(err, flow.ErrUnknownView),
		errors.Is(err, flow.ErrUnknownArtifact),
		errors.Is(err, flow.ErrPayloadMismatch):
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return apperrors.MapError(err)
}
