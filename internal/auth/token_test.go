package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booking-service/internal/domain"
)

func TestIssuePairAndParse(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute, time.Hour)
	user := &domain.User{ID: "5f0c2c1e-1f7e-4a38-8f4f-1f0e8c0c9a11", IsStaff: true}

	pair, err := tm.IssuePair(user)
	require.NoError(t, err)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	claims, err := tm.ParseTyped(pair.Access, domain.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.True(t, claims.IsStaff)

	_, err = tm.ParseTyped(pair.Refresh, domain.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err = tm.ParseToken(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeRefresh, claims.TokenType)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute, time.Hour)
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	access, _, err := tm.IssueAccess(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ParseToken(access)
	assert.Error(t, err)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("one", time.Minute, time.Hour)
	verifier := NewTokenManager("two", time.Minute, time.Hour)

	access, _, err := issuer.IssueAccess(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(access)
	assert.Error(t, err)
	_, err = verifier.ParseToken("not.a.jwt")
	assert.Error(t, err)
}
