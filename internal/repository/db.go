package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles every repository bound to the same handle.
type Repositories struct {
	Users          UserRepository
	Roles          RoleRepository
	ServiceTypes   ServiceTypeRepository
	Bookings       BookingRepository
	PasswordResets PasswordResetRepository
}

// NewRepositories binds all repositories to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Users:          NewUserRepository(db),
		Roles:          NewRoleRepository(db),
		ServiceTypes:   NewServiceTypeRepository(db),
		Bookings:       NewBookingRepository(db),
		PasswordResets: NewPasswordResetRepository(db),
	}
}

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Atomic(ctx context.Context, fn func(repos Repositories) error) error
}

// ErrNoDatabase is returned when the store was built without a pool.
var ErrNoDatabase = errors.New("database not configured")

// Store is the Postgres-backed Transactor.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Atomic implements Transactor.
func (s *Store) Atomic(ctx context.Context, fn func(repos Repositories) error) error {
	if s == nil || s.pool == nil {
		return ErrNoDatabase
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(ctx)
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Page limits list queries. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) clause() string {
	var out string
	if p.Limit > 0 {
		out += fmt.Sprintf(" LIMIT %d", p.Limit)
	}
	if p.Offset > 0 {
		out += fmt.Sprintf(" OFFSET %d", p.Offset)
	}
	return out
}
