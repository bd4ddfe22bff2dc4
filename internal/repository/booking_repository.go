package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/booking-service/internal/domain"
)

// BookingFilter captures admin search parameters.
type BookingFilter struct {
	Statuses        []domain.BookingStatus
	PaymentStatuses []domain.PaymentStatus
	ServiceTypeID   *string
	SearchTerm      *string
	Page
}

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	Count(ctx context.Context) (int64, error)
}

type bookingRepository struct {
	db DBTX
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(db DBTX) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingSelect = `
        SELECT b.id, b.booking_id, b.client_name, b.phone, b.service_type_id, st.name,
               b.session_datetime, to_char(b.start_time, 'HH24:MI:SS'), to_char(b.end_time, 'HH24:MI:SS'),
               b.duration, b.message, b.status, b.payment_status, b.created_at, b.updated_at
        FROM bookings b
        LEFT JOIN service_types st ON st.id = b.service_type_id`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        WITH inserted AS (
            INSERT INTO bookings (booking_id, client_name, phone, service_type_id, session_datetime,
                start_time, end_time, duration, message, status, payment_status)
            VALUES ($1,$2,$3,$4,$5,$6::time,$7::time,$8,$9,$10,$11)
            RETURNING id, service_type_id, created_at, updated_at
        )
        SELECT i.id, st.name, i.created_at, i.updated_at
        FROM inserted i LEFT JOIN service_types st ON st.id = i.service_type_id`
	return r.db.QueryRow(ctx, query,
		booking.BookingID,
		booking.ClientName,
		booking.Phone,
		booking.ServiceTypeID,
		booking.SessionDateTime,
		booking.StartTime,
		booking.EndTime,
		booking.Duration,
		booking.Message,
		booking.Status,
		booking.PaymentStatus,
	).Scan(&booking.ID, &booking.ServiceTypeName, &booking.CreatedAt, &booking.UpdatedAt)
}

// Update writes every mutable column. booking_id and phone are not touched.
func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	const query = `
        WITH updated AS (
            UPDATE bookings SET client_name=$1, service_type_id=$2, session_datetime=$3,
                start_time=$4::time, end_time=$5::time, duration=$6, message=$7,
                status=$8, payment_status=$9, updated_at=NOW()
            WHERE id=$10
            RETURNING service_type_id, updated_at
        )
        SELECT st.name, u.updated_at
        FROM updated u LEFT JOIN service_types st ON st.id = u.service_type_id`
	return r.db.QueryRow(ctx, query,
		booking.ClientName,
		booking.ServiceTypeID,
		booking.SessionDateTime,
		booking.StartTime,
		booking.EndTime,
		booking.Duration,
		booking.Message,
		booking.Status,
		booking.PaymentStatus,
		booking.ID,
	).Scan(&booking.ServiceTypeName, &booking.UpdatedAt)
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, bookingSelect+` WHERE b.id=$1`, id))
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("b.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.PaymentStatuses) > 0 {
		placeholders := make([]string, len(filter.PaymentStatuses))
		for i, status := range filter.PaymentStatuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("b.payment_status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ServiceTypeID != nil {
		args = append(args, *filter.ServiceTypeID)
		clauses = append(clauses, fmt.Sprintf("b.service_type_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(b.client_name) LIKE %s OR LOWER(b.phone) LIKE %s OR LOWER(b.booking_id) LIKE %s)", p, p, p))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY b.created_at DESC%s`,
		bookingSelect, strings.Join(clauses, " AND "), filter.Page.clause())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *booking)
	}
	return result, rows.Err()
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var booking domain.Booking
	if err := row.Scan(
		&booking.ID,
		&booking.BookingID,
		&booking.ClientName,
		&booking.Phone,
		&booking.ServiceTypeID,
		&booking.ServiceTypeName,
		&booking.SessionDateTime,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Duration,
		&booking.Message,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}
