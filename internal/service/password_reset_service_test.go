package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
	"github.com/spec-kit/booking-service/internal/mailer"
	"github.com/spec-kit/booking-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

const resetEmail = "client@example.com"

type resetFixture struct {
	svc        *PasswordResetService
	store      *repotest.Store
	sender     *MockSender
	clock      *fakeClock
	dispatcher *recordingDispatcher
	user       domain.User
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	store := repotest.NewStore()
	store.Now = clock.Now

	hash, err := auth.HashPassword("old-password", bcrypt.MinCost)
	require.NoError(t, err)
	user := repotest.SeedUser(t, store, domain.User{
		Email:        resetEmail,
		Username:     "client_1234",
		PasswordHash: hash,
		IsActive:     true,
	})

	sender := &MockSender{}
	dispatcher := &recordingDispatcher{}
	svc := NewPasswordResetService(PasswordResetDependencies{
		Store:      store,
		Mailer:     sender,
		Dispatcher: dispatcher,
		Clock:      clock.Now,
		TTL:        10 * time.Minute,
		BcryptCost: bcrypt.MinCost,
	})
	return &resetFixture{svc: svc, store: store, sender: sender, clock: clock, dispatcher: dispatcher, user: user}
}

// queueCodes makes the service issue codes in order.
func (f *resetFixture) queueCodes(codes ...string) {
	f.svc.newCode = func() (string, error) {
		if len(codes) == 0 {
			return "", errors.New("no more codes")
		}
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}
}

func (f *resetFixture) expectMail() {
	f.sender.On("Send", mock.Anything, mock.AnythingOfType("mailer.Message")).Return(nil)
}

func TestRequestResetUnknownEmail(t *testing.T) {
	f := newResetFixture(t)

	err := f.svc.RequestReset(context.Background(), "nobody@example.com")
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeNotFound, de.Code)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Contains(t, de.Details, "email")
	assert.Empty(t, f.store.OTPs())
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRequestResetSendsCode(t *testing.T) {
	f := newResetFixture(t)
	f.queueCodes("0427")
	f.expectMail()

	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	otps := f.store.OTPs()
	require.Len(t, otps, 1)
	assert.Equal(t, "0427", otps[0].Code)
	assert.Equal(t, f.user.ID, otps[0].UserID)
	assert.True(t, otps[0].ExpiresAt.Equal(f.clock.Now().Add(10*time.Minute)))

	f.sender.AssertNumberOfCalls(t, "Send", 1)
	msg := f.sender.Calls[0].Arguments.Get(1).(mailer.Message)
	assert.Equal(t, []string{resetEmail}, msg.To)
	assert.Equal(t, "Password Reset OTP from HYPNOTHERAPY", msg.Subject)
	assert.True(t, strings.Contains(msg.TextBody, "0427"))
	assert.Contains(t, f.dispatcher.types(), events.EventPasswordResetRequested)
}

func TestRequestResetTwiceLeavesOneLiveCode(t *testing.T) {
	f := newResetFixture(t)
	f.queueCodes("1111", "2222")
	f.expectMail()

	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	otps := f.store.OTPs()
	require.Len(t, otps, 1)
	assert.Equal(t, "2222", otps[0].Code)

	err := f.svc.VerifyReset(context.Background(), resetEmail, "1111")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExp))
}

func TestRequestResetReplacesCodeExpiringNow(t *testing.T) {
	f := newResetFixture(t)
	repotest.SeedOTP(t, f.store, domain.PasswordResetOTP{
		UserID:    f.user.ID,
		Code:      "1111",
		CreatedAt: f.clock.Now().Add(-10 * time.Minute),
		ExpiresAt: f.clock.Now(),
	})
	require.NoError(t, f.svc.VerifyReset(context.Background(), resetEmail, "1111"))

	f.queueCodes("2222")
	f.expectMail()
	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	otps := f.store.OTPs()
	require.Len(t, otps, 1)
	assert.Equal(t, "2222", otps[0].Code)
	err := f.svc.VerifyReset(context.Background(), resetEmail, "1111")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExp))
}

func TestRequestResetMailFailureLeavesNoCode(t *testing.T) {
	f := newResetFixture(t)
	f.queueCodes("5555")
	f.sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: connection refused"))

	err := f.svc.RequestReset(context.Background(), resetEmail)
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeEmailDelivery, de.Code)
	assert.Equal(t, 502, de.HTTPStatus)
	assert.Empty(t, f.store.OTPs())
	assert.Empty(t, f.dispatcher.types())
}

func TestRequestResetCommitFailureAfterMailLeavesCodeUnusable(t *testing.T) {
	f := newResetFixture(t)
	f.queueCodes("6666")
	f.expectMail()
	f.store.CommitErr = errors.New("commit failed")

	err := f.svc.RequestReset(context.Background(), resetEmail)
	require.Error(t, err)
	f.sender.AssertNumberOfCalls(t, "Send", 1)
	assert.Empty(t, f.store.OTPs())

	f.store.CommitErr = nil
	err = f.svc.VerifyReset(context.Background(), resetEmail, "6666")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExp))
}

func TestRequestResetPurgesExpiredCodes(t *testing.T) {
	f := newResetFixture(t)
	other := repotest.SeedUser(t, f.store, domain.User{Email: "other@example.com", Username: "other_0001", IsActive: true})
	repotest.SeedOTP(t, f.store, domain.PasswordResetOTP{
		UserID:    other.ID,
		Code:      "9999",
		CreatedAt: f.clock.Now().Add(-30 * time.Minute),
		ExpiresAt: f.clock.Now().Add(-20 * time.Minute),
	})
	f.queueCodes("1234")
	f.expectMail()

	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	otps := f.store.OTPs()
	require.Len(t, otps, 1)
	assert.Equal(t, f.user.ID, otps[0].UserID)
}

func TestVerifyResetIsRepeatable(t *testing.T) {
	f := newResetFixture(t)
	f.queueCodes("4321")
	f.expectMail()
	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	require.NoError(t, f.svc.VerifyReset(context.Background(), resetEmail, "4321"))
	require.NoError(t, f.svc.VerifyReset(context.Background(), resetEmail, "4321"))
	assert.Len(t, f.store.OTPs(), 1)
}

func TestVerifyResetRejects(t *testing.T) {
	f := newResetFixture(t)
	f.queueCodes("4321")
	f.expectMail()
	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	err := f.svc.VerifyReset(context.Background(), "nobody@example.com", "4321")
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeNotFound, de.Code)
	assert.Contains(t, de.Details, "email")

	err = f.svc.VerifyReset(context.Background(), resetEmail, "0000")
	de = apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeInvalidOrExp, de.Code)
	assert.Equal(t, "OTP is invalid or expired.", de.Details["otp"])
}

func TestExpiredCodeRejected(t *testing.T) {
	f := newResetFixture(t)
	f.queueCodes("7777")
	f.expectMail()
	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	f.clock.Advance(10*time.Minute + time.Second)

	err := f.svc.VerifyReset(context.Background(), resetEmail, "7777")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExp))
	err = f.svc.CompleteReset(context.Background(), resetEmail, "7777", "new-password")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExp))

	stored, ok := f.store.User(resetEmail)
	require.True(t, ok)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "old-password"))
}

func TestCompleteResetChangesPasswordAndClearsCodes(t *testing.T) {
	f := newResetFixture(t)
	repotest.SeedOTP(t, f.store, domain.PasswordResetOTP{
		UserID:    f.user.ID,
		Code:      "1111",
		CreatedAt: f.clock.Now().Add(-20 * time.Minute),
		ExpiresAt: f.clock.Now().Add(-10 * time.Minute),
	})
	f.queueCodes("2468")
	f.expectMail()
	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	require.NoError(t, f.svc.CompleteReset(context.Background(), resetEmail, "2468", "brand-new-pass"))

	stored, ok := f.store.User(resetEmail)
	require.True(t, ok)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "brand-new-pass"))
	assert.Error(t, auth.ComparePassword(stored.PasswordHash, "old-password"))
	assert.Empty(t, f.store.OTPs())
	assert.Contains(t, f.dispatcher.types(), events.EventPasswordResetCompleted)

	err := f.svc.CompleteReset(context.Background(), resetEmail, "2468", "again")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExp))
}

// At T0 a code is issued. At T0+5m it verifies and is used to set a new
// password. At T0+11m a second code issued at T0+5m is still live but the
// first one is gone.
func TestResetScenarioOverTime(t *testing.T) {
	f := newResetFixture(t)
	f.queueCodes("1357", "8642")
	f.expectMail()

	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	f.clock.Advance(5 * time.Minute)
	require.NoError(t, f.svc.VerifyReset(context.Background(), resetEmail, "1357"))
	require.NoError(t, f.svc.CompleteReset(context.Background(), resetEmail, "1357", "after-five"))
	assert.Empty(t, f.store.OTPs())

	require.NoError(t, f.svc.RequestReset(context.Background(), resetEmail))

	f.clock.Advance(6 * time.Minute)
	err := f.svc.VerifyReset(context.Background(), resetEmail, "1357")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExp))
	require.NoError(t, f.svc.VerifyReset(context.Background(), resetEmail, "8642"))

	f.clock.Advance(5 * time.Minute)
	err = f.svc.VerifyReset(context.Background(), resetEmail, "8642")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExp))
}

func TestCompleteResetRequiresPassword(t *testing.T) {
	f := newResetFixture(t)
	err := f.svc.CompleteReset(context.Background(), resetEmail, "1234", "")
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Contains(t, de.Details, "new_password")
}
