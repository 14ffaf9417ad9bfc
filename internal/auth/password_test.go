package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, testPassword, hash)

	assert.NoError(t, CheckPassword(testPassword, hash))
	assert.ErrorIs(t, CheckPassword("wrong-password-here", hash), ErrInvalidPassword)
}

func TestHashPassword_Length(t *testing.T) {
	_, err := HashPassword("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	assert.ErrorIs(t, CheckPassword(testPassword, ""), ErrInvalidPassword)
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
