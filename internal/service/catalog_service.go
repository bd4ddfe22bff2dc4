package service

import (
	"context"
	"strings"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// CatalogInput is the writable part of a role or service type.
type CatalogInput struct {
	Name        *string
	Description Nullable[string]
}

func (in CatalogInput) name(required bool) (string, bool, error) {
	if in.Name == nil {
		if required {
			return "", false, apperrors.NewFieldError("name", msgRequired)
		}
		return "", false, nil
	}
	name := strings.TrimSpace(*in.Name)
	if name == "" {
		return "", false, apperrors.NewFieldError("name", "This field may not be blank.")
	}
	return name, true, nil
}

// ServiceTypeService manages the service catalog.
type ServiceTypeService struct {
	store repository.Transactor
}

// NewServiceTypeService constructs the service.
func NewServiceTypeService(store repository.Transactor) *ServiceTypeService {
	return &ServiceTypeService{store: store}
}

// List returns every service type ordered by name.
func (s *ServiceTypeService) List(ctx context.Context) ([]domain.ServiceType, error) {
	var out []domain.ServiceType
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		out, err = repos.ServiceTypes.List(ctx)
		return err
	})
	return out, translate("service type", err)
}

func (s *ServiceTypeService) Get(ctx context.Context, id string) (*domain.ServiceType, error) {
	var st *domain.ServiceType
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		st, err = repos.ServiceTypes.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate("service type", err)
	}
	return st, nil
}

func (s *ServiceTypeService) Create(ctx context.Context, input CatalogInput) (*domain.ServiceType, error) {
	name, _, err := input.name(true)
	if err != nil {
		return nil, err
	}
	st := &domain.ServiceType{Name: name, Description: input.Description.Value}
	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		return repos.ServiceTypes.Create(ctx, st)
	})
	if err != nil {
		return nil, translate("service type", err)
	}
	return st, nil
}

// Update changes a service type; full requires name.
func (s *ServiceTypeService) Update(ctx context.Context, id string, input CatalogInput, full bool) (*domain.ServiceType, error) {
	name, hasName, err := input.name(full)
	if err != nil {
		return nil, err
	}
	var st *domain.ServiceType
	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		if st, err = repos.ServiceTypes.GetByID(ctx, id); err != nil {
			return err
		}
		if hasName {
			st.Name = name
		}
		if input.Description.Set || full {
			st.Description = input.Description.Value
		}
		return repos.ServiceTypes.Update(ctx, st)
	})
	if err != nil {
		return nil, translate("service type", err)
	}
	return st, nil
}

// Delete removes a service type. Bookings referencing it keep existing with
// no service type.
func (s *ServiceTypeService) Delete(ctx context.Context, id string) error {
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		return repos.ServiceTypes.Delete(ctx, id)
	})
	return translate("service type", err)
}

// RoleService manages staff roles.
type RoleService struct {
	store repository.Transactor
}

// NewRoleService constructs the service.
func NewRoleService(store repository.Transactor) *RoleService {
	return &RoleService{store: store}
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	var out []domain.Role
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		out, err = repos.Roles.List(ctx)
		return err
	})
	return out, translate("role", err)
}

func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	var role *domain.Role
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		role, err = repos.Roles.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate("role", err)
	}
	return role, nil
}

func (s *RoleService) Create(ctx context.Context, input CatalogInput) (*domain.Role, error) {
	name, _, err := input.name(true)
	if err != nil {
		return nil, err
	}
	role := &domain.Role{Name: name, Description: input.Description.Value}
	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		return repos.Roles.Create(ctx, role)
	})
	if err != nil {
		return nil, translate("role", err)
	}
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id string, input CatalogInput, full bool) (*domain.Role, error) {
	name, hasName, err := input.name(full)
	if err != nil {
		return nil, err
	}
	var role *domain.Role
	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		if role, err = repos.Roles.GetByID(ctx, id); err != nil {
			return err
		}
		if hasName {
			role.Name = name
		}
		if input.Description.Set || full {
			role.Description = input.Description.Value
		}
		return repos.Roles.Update(ctx, role)
	})
	if err != nil {
		return nil, translate("role", err)
	}
	return role, nil
}

// Delete removes a role; users holding it are left without one.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		return repos.Roles.Delete(ctx, id)
	})
	return translate("role", err)
}
