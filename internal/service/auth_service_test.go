package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

func TestAuthService_RegisterCreatesClient(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.auth.Register(context.Background(), domain.RegistrationData{
		FullName: "  Ana Lopez ",
		Email:    " Ana@Example.COM ",
		Password: "secret123",
		Phone:    "+54 11 5555",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, "Ana Lopez", res.User.FullName)
	assert.Equal(t, domain.UserRoleClient, res.User.Role)
	require.NotNil(t, res.User.Phone)
	assert.NotEqual(t, "secret123", res.User.PasswordHash)

	claims := parseToken(t, res.Token)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Equal(t, []events.EventType{events.EventAccountRegistered}, f.events.types())
}

func TestAuthService_RegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, "dup@example.com")

	_, err := f.auth.Register(context.Background(), domain.RegistrationData{FullName: "Other", Email: "DUP@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmailAlreadyRegistered))
}

func TestAuthService_ValidateRegistration(t *testing.T) {
	f := newFixture(t, nil)

	cases := []struct {
		name  string
		data  domain.RegistrationData
		field string
	}{
		{"missing name", domain.RegistrationData{Email: "a@b.com", Password: "secret123"}, "fullName"},
		{"missing email", domain.RegistrationData{FullName: "A", Password: "secret123"}, "email"},
		{"invalid email", domain.RegistrationData{FullName: "A", Email: "not-an-email", Password: "secret123"}, "email"},
		{"short password", domain.RegistrationData{FullName: "A", Email: "a@b.com", Password: "abc"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.auth.ValidateRegistration(tc.data)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
			assert.Contains(t, domainErr.Details, tc.field)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t, nil)
	registered := f.register(t, "login@example.com")

	res, err := f.auth.Login(context.Background(), "LOGIN@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = f.auth.Login(context.Background(), "login@example.com", "wrong-password")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))

	_, err = f.auth.Login(context.Background(), "nobody@example.com", "secret123")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))

	_, err = f.auth.Login(context.Background(), "", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	f := newFixture(t, nil)
	res := f.register(t, "bye@example.com")
	claims := parseToken(t, res.Token)

	require.NoError(t, f.auth.Logout(context.Background(), claims))

	revoked, err := f.denylist.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.NoError(t, f.auth.Logout(context.Background(), nil))
	assert.Equal(t, 1, f.denylist.Count())
}
