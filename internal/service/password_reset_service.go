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
	"github.com/spec-kit/booking-service/internal/events"
	"github.com/spec-kit/booking-service/internal/mailer"
	"github.com/spec-kit/booking-service/internal/observability"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

const (
	msgUnknownResetEmail = "User with this email does not exist."
	msgInvalidEmail      = "Invalid email address."
)

// PasswordResetService issues and redeems one-time password reset codes.
type PasswordResetService struct {
	store      repository.Transactor
	mail       mailer.Sender
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
	newCode    func() (string, error)
	ttl        time.Duration
	bcryptCost int
}

// PasswordResetDependencies bundles collaborators for the reset flow.
type PasswordResetDependencies struct {
	Store      repository.Transactor
	Mailer     mailer.Sender
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
	TTL        time.Duration
	BcryptCost int
}

// NewPasswordResetService constructs the service.
func NewPasswordResetService(deps PasswordResetDependencies) *PasswordResetService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.Nop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PasswordResetService{
		store:      deps.Store,
		mail:       deps.Mailer,
		dispatcher: dispatcher,
		metrics:    deps.Metrics,
		logger:     logger.Named("password_reset"),
		now:        clock,
		newCode:    GenerateOTPCode,
		ttl:        ttl,
		bcryptCost: deps.BcryptCost,
	}
}

// RequestReset replaces any live code of the user with a fresh one and mails
// it. If the mail cannot be sent nothing is persisted.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	var otp *domain.PasswordResetOTP

	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		user, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnknownEmail(msgUnknownResetEmail)
			}
			return err
		}

		now := s.now()
		if _, err := repos.PasswordResets.DeleteExpired(ctx, now); err != nil {
			return err
		}
		if _, err := repos.PasswordResets.DeleteLiveForUser(ctx, user.ID, now); err != nil {
			return err
		}

		code, err := s.newCode()
		if err != nil {
			return err
		}
		otp = &domain.PasswordResetOTP{
			UserID:    user.ID,
			Code:      code,
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}
		if err := repos.PasswordResets.Create(ctx, otp); err != nil {
			return err
		}

		if err := s.mail.Send(ctx, mailer.PasswordResetMessage(user.Email, code, s.ttl)); err != nil {
			return apperrors.NewEmailDeliveryFailed(err)
		}
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeEmailDelivery) {
			s.logger.Error("reset code not delivered", zap.String("email", email), zap.Error(err))
		}
		return apperrors.MapError(err)
	}

	s.metrics.OTPIssued()
	s.logger.Info("reset code issued", zap.String("user_id", otp.UserID), zap.Time("expires_at", otp.ExpiresAt))
	s.dispatcher.Publish(ctx, events.New(events.EventPasswordResetRequested, otp.UserID, nil, s.now(),
		events.PasswordResetPayload{Email: email, ExpiresAt: &otp.ExpiresAt}))
	return nil
}

// VerifyReset checks that code is a live code for email. It changes nothing
// and can be repeated.
func (s *PasswordResetService) VerifyReset(ctx context.Context, email, code string) error {
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		_, err := s.validCode(ctx, repos, email, code)
		return err
	})
	return apperrors.MapError(err)
}

// CompleteReset sets a new password when code is valid and removes every code
// the user holds.
func (s *PasswordResetService) CompleteReset(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewFieldError("new_password", msgRequired)
	}
	var user *domain.User
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		user, err = s.validCode(ctx, repos, email, code)
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		_, err = repos.PasswordResets.DeleteAllForUser(ctx, user.ID)
		return err
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.metrics.PasswordReset()
	s.logger.Info("password reset completed", zap.String("user_id", user.ID))
	s.dispatcher.Publish(ctx, events.New(events.EventPasswordResetCompleted, user.ID, &user.ID, s.now(),
		events.PasswordResetPayload{Email: user.Email}))
	return nil
}

func (s *PasswordResetService) validCode(ctx context.Context, repos repository.Repositories, email, code string) (*domain.User, error) {
	user, err := repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.metrics.OTPRejected("unknown_email")
			return nil, apperrors.NewUnknownEmail(msgInvalidEmail)
		}
		return nil, err
	}

	otp, err := repos.PasswordResets.FindByUserAndCode(ctx, user.ID, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.metrics.OTPRejected("mismatch")
			return nil, apperrors.NewInvalidOrExpired()
		}
		return nil, err
	}
	if otp.Expired(s.now()) {
		s.metrics.OTPRejected("expired")
		return nil, apperrors.NewInvalidOrExpired()
	}
	return user, nil
}
