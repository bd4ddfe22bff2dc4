package repository

import (
	"context"
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// PasswordResetRepository manages one-time reset codes.
type PasswordResetRepository interface {
	Create(ctx context.Context, otp *domain.PasswordResetOTP) error
	FindByUserAndCode(ctx context.Context, userID, code string) (*domain.PasswordResetOTP, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteLiveForUser(ctx context.Context, userID string, now time.Time) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

type passwordResetRepository struct {
	db DBTX
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(db DBTX) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, otp *domain.PasswordResetOTP) error {
	const query = `
        INSERT INTO password_reset_otps (user_id, code, created_at, expires_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		otp.UserID,
		otp.Code,
		otp.CreatedAt,
		otp.ExpiresAt,
	).Scan(&otp.ID)
}

// FindByUserAndCode returns the newest row matching the pair, expired or not.
func (r *passwordResetRepository) FindByUserAndCode(ctx context.Context, userID, code string) (*domain.PasswordResetOTP, error) {
	const query = `
        SELECT id, user_id, code, created_at, expires_at
        FROM password_reset_otps
        WHERE user_id=$1 AND code=$2
        ORDER BY created_at DESC
        LIMIT 1`
	var otp domain.PasswordResetOTP
	if err := r.db.QueryRow(ctx, query, userID, code).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Code,
		&otp.CreatedAt,
		&otp.ExpiresAt,
	); err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM password_reset_otps WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// DeleteLiveForUser removes codes still valid at now, including one expiring
// exactly at now.
func (r *passwordResetRepository) DeleteLiveForUser(ctx context.Context, userID string, now time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM password_reset_otps WHERE user_id=$1 AND expires_at >= $2`, userID, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *passwordResetRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM password_reset_otps WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
