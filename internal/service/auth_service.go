package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/auth"
	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User  *domain.User
	Token string
	Meta  domain.Token
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	denylist    auth.Denylist
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
	minPassword int
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Denylist   auth.Denylist
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minPassword := cfg.MinPasswordLength
	if minPassword <= 0 {
		minPassword = 6
	}
	return &AuthService{
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		denylist:    deps.Denylist,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		bcryptCost:  cfg.BcryptCost,
		minPassword: minPassword,
	}
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks the registration form before any storage call.
func (s *AuthService) ValidateRegistration(data domain.RegistrationData) error {
	details := map[string]any{}
	if strings.TrimSpace(data.FullName) == "" {
		details["fullName"] = "required"
	}
	email := NormalizeEmail(data.Email)
	if email == "" {
		details["email"] = "required"
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		details["email"] = "invalid"
	}
	if data.Password == "" {
		details["password"] = "required"
	} else if len(data.Password) < s.minPassword {
		details["password"] = "too short"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration data", details)
	}
	return nil
}

// EnsureEmailAvailable fails when email already has an account.
func (s *AuthService) EnsureEmailAvailable(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.NewEmailAlreadyRegistered(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}

// Register creates a CLIENT account and signs it in.
func (s *AuthService) Register(ctx context.Context, data domain.RegistrationData) (*AuthResult, error) {
	if err := s.ValidateRegistration(data); err != nil {
		return nil, err
	}
	email := NormalizeEmail(data.Email)
	if err := s.EnsureEmailAvailable(ctx, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(data.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FullName:     strings.TrimSpace(data.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleClient,
	}
	if phone := strings.TrimSpace(data.Phone); phone != "" {
		user.Phone = &phone
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewEmailAlreadyRegistered(email)
		}
		return nil, apperrors.MapError(err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, events.EventAccountRegistered, user, events.AccountRegisteredPayload{FullName: user.FullName, Email: user.Email})
	s.logger.Info("account registered", zap.String("user_id", user.ID))
	return result, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return s.issue(user)
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, meta, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, Meta: meta}, nil
}
