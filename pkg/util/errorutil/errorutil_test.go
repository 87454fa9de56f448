package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passes through", NewConflict("taken", nil), CodeConflict, http.StatusConflict},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewInvalidCredentials()), CodeInvalidCredentials, http.StatusUnauthorized},
		{"no rows becomes not found", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"anything else is internal", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestUnsupportedPaymentMethodDetails(t *testing.T) {
	err := NewUnsupportedPaymentMethod("Bitcoin", []string{"Stripe"})

	de := ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "Bitcoin", de.Details["method"])
	assert.True(t, IsCode(err, CodeUnsupportedPaymentMethod))
	assert.False(t, IsCode(errors.New("x"), CodeUnsupportedPaymentMethod))
}
