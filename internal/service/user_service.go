package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

const msgEmailTaken = "A user with this email already exists."

// UserService provides admin account management.
type UserService struct {
	store       repository.Transactor
	bcryptCost  int
	logger      *zap.Logger
	newUsername func(email string) (string, error)
}

// UserCreateInput describes an account created by an admin. Password is
// optional; an account without one cannot sign in until it is reset.
type UserCreateInput struct {
	Email    string
	Password *string
	FullName string
	Phone    string
	RoleID   *string
	IsActive *bool
	IsStaff  bool
}

// UserPatch carries admin changes to an account.
type UserPatch struct {
	Email    *string
	Password *string
	FullName *string
	Phone    *string
	RoleID   Nullable[string]
	IsActive *bool
	IsStaff  *bool
}

// UserListFilter describes admin listing filters.
type UserListFilter struct {
	IsActive *bool
	Search   string
	Pagination
}

// NewUserService constructs the service.
func NewUserService(store repository.Transactor, bcryptCost int, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		store:       store,
		bcryptCost:  bcryptCost,
		logger:      logger.Named("user_service"),
		newUsername: DeriveUsername,
	}
}

// List returns every account except the caller's.
func (s *UserService) List(ctx context.Context, callerID string, filter UserListFilter) ([]domain.User, error) {
	repoFilter := repository.UserFilter{IsActive: filter.IsActive, ExcludeID: callerID}
	if term := strings.TrimSpace(filter.Search); term != "" {
		repoFilter.SearchTerm = &term
	}
	repoFilter.Limit, repoFilter.Offset = filter.limitOffset()

	var users []domain.User
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		users, err = repos.Users.List(ctx, repoFilter)
		return err
	})
	if err != nil {
		return nil, translate("user", err)
	}
	return users, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate("user", err)
	}
	return user, nil
}

// Create adds an account with a derived username.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	username, err := s.newUsername(email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:    email,
		Username: username,
		FullName: strings.TrimSpace(input.FullName),
		Phone:    strings.TrimSpace(input.Phone),
		RoleID:   input.RoleID,
		IsActive: true,
		IsStaff:  input.IsStaff,
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil && *input.Password != "" {
		if user.PasswordHash, err = auth.HashPassword(*input.Password, s.bcryptCost); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}

	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		taken, err := repos.Users.EmailTaken(ctx, email, "")
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewConflict(msgEmailTaken, map[string]any{"email": msgEmailTaken})
		}
		return repos.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, translate("user", err)
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.Bool("is_staff", user.IsStaff))
	return user, nil
}

// Update changes an account. A full update requires email. username and
// date_joined never change.
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch, full bool) (*domain.User, error) {
	if full && patch.Email == nil {
		return nil, apperrors.NewFieldError("email", msgRequired)
	}

	var hash string
	if patch.Password != nil && *patch.Password != "" {
		var err error
		if hash, err = auth.HashPassword(*patch.Password, s.bcryptCost); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}

	var user *domain.User
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.Email != nil {
			email := strings.TrimSpace(*patch.Email)
			taken, err := repos.Users.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.NewConflict(msgEmailTaken, map[string]any{"email": msgEmailTaken})
			}
			user.Email = email
		}
		if hash != "" {
			user.PasswordHash = hash
		}
		if patch.FullName != nil {
			user.FullName = strings.TrimSpace(*patch.FullName)
		}
		if patch.Phone != nil {
			user.Phone = strings.TrimSpace(*patch.Phone)
		}
		if patch.RoleID.Set {
			user.RoleID = patch.RoleID.Value
		}
		if patch.IsActive != nil {
			user.IsActive = *patch.IsActive
		}
		if patch.IsStaff != nil {
			user.IsStaff = *patch.IsStaff
		}
		return repos.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, translate("user", err)
	}
	return user, nil
}

// Delete removes an account and, by cascade, its reset codes.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		return repos.Users.Delete(ctx, id)
	})
	if err != nil {
		return translate("user", err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}
