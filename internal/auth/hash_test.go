package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword("pw123", hash))
	assert.False(t, CheckPassword("pw124", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("pw123")
	require.NoError(t, err)
	second, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("pw123", first))
	assert.True(t, CheckPassword("pw123", second))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("pw123", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("pw123", ""))
}
