package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShareToken(t *testing.T) {
	t.Parallel()

	a, err := NewShareToken()
	require.NoError(t, err)
	b, err := NewShareToken()
	require.NoError(t, err)

	assert.Len(t, a, 48)
	assert.NotEqual(t, a, b)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "s3cret"))
	assert.False(t, VerifyPassword(h, "S3cret"))
	assert.False(t, VerifyPassword(h, ""))
}

func TestPortalTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewPortalToken("secret", 42, time.Minute)
	require.NoError(t, err)

	id, err := ParsePortalToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestPortalTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewPortalToken("secret", 42, time.Minute)
	require.NoError(t, err)

	_, err = ParsePortalToken("other", tok.Token)
	assert.Error(t, err)
}

func TestPortalTokenExpired(t *testing.T) {
	t.Parallel()

	tok, err := NewPortalToken("secret", 42, -time.Minute)
	require.NoError(t, err)

	_, err = ParsePortalToken("secret", tok.Token)
	assert.Error(t, err)
}

func TestDashboardTokenRejectedAsPortalToken(t *testing.T) {
	t.Parallel()

	// dashboard access tokens carry no scope claim
	at, err := NewAccessToken("secret", 42, "free", 15)
	require.NoError(t, err)

	_, err = ParsePortalToken("secret", at.Token)
	assert.Error(t, err)
}

func TestHashRefreshRawDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashRefreshRaw("abc"), HashRefreshRaw("abc"))
	assert.NotEqual(t, HashRefreshRaw("abc"), HashRefreshRaw("abd"))
	assert.Len(t, HashRefreshRaw("abc"), 64)
}
