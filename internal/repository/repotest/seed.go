package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository"
)

// SeedUser stores user and returns it with its generated id.
func SeedUser(t testing.TB, store *Store, user domain.User) domain.User {
	t.Helper()
	err := store.Atomic(context.Background(), func(repos repository.Repositories) error {
		return repos.Users.Create(context.Background(), &user)
	})
	require.NoError(t, err)
	return user
}

// SeedServiceType stores a service type named name.
func SeedServiceType(t testing.TB, store *Store, name string) domain.ServiceType {
	t.Helper()
	st := domain.ServiceType{Name: name}
	err := store.Atomic(context.Background(), func(repos repository.Repositories) error {
		return repos.ServiceTypes.Create(context.Background(), &st)
	})
	require.NoError(t, err)
	return st
}

// SeedOTP stores a reset code directly.
func SeedOTP(t testing.TB, store *Store, otp domain.PasswordResetOTP) domain.PasswordResetOTP {
	t.Helper()
	err := store.Atomic(context.Background(), func(repos repository.Repositories) error {
		return repos.PasswordResets.Create(context.Background(), &otp)
	})
	require.NoError(t, err)
	return otp
}
