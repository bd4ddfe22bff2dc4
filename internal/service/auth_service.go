package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

const msgBadCredentials = "No active account found with the given credentials"

// AuthService coordinates registration, login and token flows.
type AuthService struct {
	store       repository.Transactor
	tokens      *auth.TokenManager
	bcryptCost  int
	logger      *zap.Logger
	newUsername func(email string) (string, error)
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Store      repository.Transactor
	Tokens     *auth.TokenManager
	BcryptCost int
	Logger     *zap.Logger
}

// RegisterInput is a self sign-up request.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:       deps.Store,
		tokens:      deps.Tokens,
		bcryptCost:  deps.BcryptCost,
		logger:      logger.Named("auth_service"),
		newUsername: DeriveUsername,
	}
}

// Login exchanges credentials for an access/refresh pair. Every failure
// reason yields the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	var user *domain.User
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
		return err
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.TokenPair{}, apperrors.MapError(err)
		}
		auth.BurnCompare(password)
		return domain.TokenPair{}, apperrors.NewAuthenticationFailed(msgBadCredentials)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil || !user.IsActive {
		s.logger.Info("login rejected", zap.String("user_id", user.ID))
		return domain.TokenPair{}, apperrors.NewAuthenticationFailed(msgBadCredentials)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return domain.TokenPair{}, apperrors.NewInternalError(err)
	}
	return pair, nil
}

// Refresh issues a new access token for a valid refresh token whose user is
// still active.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokens.ParseTyped(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return "", time.Time{}, apperrors.NewAuthenticationFailed("Token is invalid or expired")
	}

	var user *domain.User
	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, claims.UserID())
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewAuthenticationFailed("Token is invalid or expired")
		}
		return "", time.Time{}, apperrors.MapError(err)
	}
	if !user.IsActive {
		return "", time.Time{}, apperrors.NewAuthenticationFailed("Token is invalid or expired")
	}

	access, exp, err := s.tokens.IssueAccess(user)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return access, exp, nil
}

// Verify reports whether token is a well-formed, unexpired token of either type.
func (s *AuthService) Verify(_ context.Context, token string) error {
	if _, err := s.tokens.ParseToken(token); err != nil {
		return apperrors.NewAuthenticationFailed("Token is invalid or expired")
	}
	return nil
}

// Register creates an active, non-staff account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if input.Password == "" {
		return nil, apperrors.NewFieldError("password", msgRequired)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	username, err := s.newUsername(email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		IsActive:     true,
	}
	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		taken, err := repos.Users.EmailTaken(ctx, email, "")
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewFieldError("email", "Email is already in use.")
		}
		return repos.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	var user *domain.User
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, translate("user", err)
	}
	return user, nil
}

// Tokens exposes the token manager for middleware usage.
func (s *AuthService) Tokens() *auth.TokenManager {
	return s.tokens
}
