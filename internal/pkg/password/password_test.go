package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "correct-horse-battery", hash)
	assert.True(t, Verify("correct-horse-battery", hash))
	assert.False(t, Verify("wrong-password", hash))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("same-password")
	require.NoError(t, err)
	h2, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify("same-password", h1))
	assert.True(t, Verify("same-password", h2))
}

func TestHashToken(t *testing.T) {
	h := HashToken("refresh-token-value")

	// SHA256 hex is 64 chars and deterministic
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("refresh-token-value"))
	assert.NotEqual(t, h, HashToken("other-token"))
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword(""))
	assert.False(t, ValidatePassword("short7!"))
	assert.True(t, ValidatePassword("eightchr"))
	assert.True(t, ValidatePassword("a much longer passphrase"))
}
