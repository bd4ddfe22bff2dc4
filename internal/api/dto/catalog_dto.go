package dto

import (
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// CatalogRequest creates or updates a role or service type.
type CatalogRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Description NullableString `json:"description"`
}

// CatalogResponse renders a role or a service type.
type CatalogResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewServiceTypeResponse maps a service type.
func NewServiceTypeResponse(st *domain.ServiceType) CatalogResponse {
	return CatalogResponse{
		ID:          st.ID,
		Name:        st.Name,
		Description: st.Description,
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	}
}

// NewServiceTypeResponses maps a slice of service types.
func NewServiceTypeResponses(items []domain.ServiceType) []CatalogResponse {
	out := make([]CatalogResponse, 0, len(items))
	for i := range items {
		out = append(out, NewServiceTypeResponse(&items[i]))
	}
	return out
}

// NewRoleResponse maps a role.
func NewRoleResponse(role *domain.Role) CatalogResponse {
	return CatalogResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

// NewRoleResponses maps a slice of roles.
func NewRoleResponses(items []domain.Role) []CatalogResponse {
	out := make([]CatalogResponse, 0, len(items))
	for i := range items {
		out = append(out, NewRoleResponse(&items[i]))
	}
	return out
}
