package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("NewPass1!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "NewPass1!", hash)

	assert.NoError(t, ComparePassword(hash, "NewPass1!"))
	assert.Error(t, ComparePassword(hash, "newpass1!"))
}

func TestCompareEmptyHashNeverMatches(t *testing.T) {
	assert.ErrorIs(t, ComparePassword("", ""), bcrypt.ErrMismatchedHashAndPassword)
}
