package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(AuthDependencies{Store: store, Tokens: tokens, BcryptCost: bcrypt.MinCost})
	return svc, store
}

func seedWithPassword(t *testing.T, store *repotest.Store, email, password string, active bool) domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return repotest.SeedUser(t, store, domain.User{
		Email:        email,
		Username:     domain.EmailLocalPart(email) + "_0001",
		PasswordHash: hash,
		IsActive:     active,
	})
}

func TestLoginIssuesPair(t *testing.T) {
	svc, store := newAuthFixture(t)
	user := seedWithPassword(t, store, "ana@example.com", "s3cret!", true)

	pair, err := svc.Login(context.Background(), "ana@example.com", "s3cret!")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := svc.Tokens().ParseTyped(pair.Access, domain.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, store := newAuthFixture(t)
	seedWithPassword(t, store, "ana@example.com", "s3cret!", true)
	seedWithPassword(t, store, "off@example.com", "s3cret!", false)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "s3cret!"},
		{"wrong password", "ana@example.com", "nope"},
		{"inactive user", "off@example.com", "s3cret!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			de := apperrors.ToDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, apperrors.CodeAuthentication, de.Code)
			assert.Equal(t, msgBadCredentials, de.Message)
		})
	}
}

func TestRefreshAndVerify(t *testing.T) {
	svc, store := newAuthFixture(t)
	seedWithPassword(t, store, "ana@example.com", "s3cret!", true)
	pair, err := svc.Login(context.Background(), "ana@example.com", "s3cret!")
	require.NoError(t, err)

	access, exp, err := svc.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.False(t, exp.IsZero())

	_, _, err = svc.Refresh(context.Background(), pair.Access)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAuthentication))

	assert.NoError(t, svc.Verify(context.Background(), pair.Access))
	assert.NoError(t, svc.Verify(context.Background(), pair.Refresh))
	assert.True(t, apperrors.HasCode(svc.Verify(context.Background(), "garbage"), apperrors.CodeAuthentication))
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	svc, store := newAuthFixture(t)
	user := seedWithPassword(t, store, "ana@example.com", "s3cret!", true)
	pair, err := svc.Login(context.Background(), "ana@example.com", "s3cret!")
	require.NoError(t, err)

	users := NewUserService(store, bcrypt.MinCost, nil)
	_, err = users.Update(context.Background(), user.ID, UserPatch{IsActive: ptr(false)}, false)
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), pair.Refresh)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAuthentication))
}

func TestRegister(t *testing.T) {
	svc, store := newAuthFixture(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		FullName: " Ana Silva ",
		Email:    "ana.silva@example.com",
		Password: "s3cret!",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^ana\.silva_[0-9]{4}$`, user.Username)
	assert.Equal(t, "Ana Silva", user.FullName)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)

	stored, ok := store.User("ana.silva@example.com")
	require.True(t, ok)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "s3cret!"))

	_, err = svc.Login(context.Background(), "ana.silva@example.com", "s3cret!")
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store := newAuthFixture(t)
	seedWithPassword(t, store, "ana@example.com", "s3cret!", true)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "ana@example.com", Password: "other"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Equal(t, "Email is already in use.", de.Details["email"])
}

func TestRegisterRequiresPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Register(context.Background(), RegisterInput{Email: "ana@example.com"})
	de := apperrors.ToDomainError(err)
	assert.Contains(t, de.Details, "password")
}

func TestMe(t *testing.T) {
	svc, store := newAuthFixture(t)
	user := seedWithPassword(t, store, "ana@example.com", "s3cret!", true)

	got, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)

	_, err = svc.Me(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestRegisterUsernameCollisionIsNotRetried(t *testing.T) {
	svc, store := newAuthFixture(t)
	calls := 0
	svc.newUsername = func(string) (string, error) {
		calls++
		return "x_0001", nil
	}

	_, err := svc.Register(context.Background(), RegisterInput{FullName: "X", Email: "x@y.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{FullName: "X", Email: "x@z.com", Password: "pw"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeConflict, de.Code)
	assert.Equal(t, 409, de.HTTPStatus)
	assert.Contains(t, de.Details, "username")
	assert.Equal(t, 2, calls)

	_, ok := store.User("x@z.com")
	assert.False(t, ok)
}
