package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/booking-service/internal/domain"
)

// ServiceTypeRepository persists the service catalog.
type ServiceTypeRepository interface {
	Create(ctx context.Context, st *domain.ServiceType) error
	Update(ctx context.Context, st *domain.ServiceType) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ServiceType, error)
	List(ctx context.Context) ([]domain.ServiceType, error)
}

type serviceTypeRepository struct {
	db DBTX
}

// NewServiceTypeRepository builds the repository.
func NewServiceTypeRepository(db DBTX) ServiceTypeRepository {
	return &serviceTypeRepository{db: db}
}

func (r *serviceTypeRepository) Create(ctx context.Context, st *domain.ServiceType) error {
	const query = `
        INSERT INTO service_types (name, description)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		st.Name,
		st.Description,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

func (r *serviceTypeRepository) Update(ctx context.Context, st *domain.ServiceType) error {
	const query = `
        UPDATE service_types SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query,
		st.Name,
		st.Description,
		st.ID,
	).Scan(&st.UpdatedAt)
}

func (r *serviceTypeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM service_types WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceTypeRepository) GetByID(ctx context.Context, id string) (*domain.ServiceType, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM service_types WHERE id=$1`
	var st domain.ServiceType
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&st.ID,
		&st.Name,
		&st.Description,
		&st.CreatedAt,
		&st.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *serviceTypeRepository) List(ctx context.Context) ([]domain.ServiceType, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM service_types ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceType
	for rows.Next() {
		var st domain.ServiceType
		if err := rows.Scan(&st.ID, &st.Name, &st.Description, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}
