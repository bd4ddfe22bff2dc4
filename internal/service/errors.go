package service

import (
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

const msgRequired = "This field is required."

// translate maps a repository error to a DomainError, naming resource when
// the row was not found.
func translate(resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}

// Nullable is a partial-update field that distinguishes "absent" from an
// explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Pagination is the optional page/page_size pair accepted by list endpoints.
// A zero PageSize returns every row.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) limitOffset() (int, int) {
	if p.PageSize <= 0 {
		return 0, 0
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return p.PageSize, (page - 1) * p.PageSize
}
