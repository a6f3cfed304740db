package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdo10/loopin/internal/config"
)

// The owner-side invalidation rebuilds the cache key from the share token
// alone, so the key must not depend on anything else about the request.
func TestPortalCacheKeyDerivedFromTokenOnly(t *testing.T) {
	key := PortalCacheKey("cache", "abc123")
	assert.Equal(t, "cache:portal:abc123", key)
	assert.Equal(t, key, PortalCacheKey("cache", "abc123"))
	assert.NotEqual(t, key, PortalCacheKey("cache", "other"))
}

func TestInvalidatePortalCacheNilClient(t *testing.T) {
	assert.NotPanics(t, func() {
		InvalidatePortalCache(context.Background(), nil, "cache", "abc123")
		InvalidatePortalCache(context.Background(), nil, "cache", "")
	})
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/portal/abc123", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/portal/:token")
	c.SetParamNames("token")
	c.SetParamValues("abc123")

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"ok":true}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)

	_, _, _, ok = decodePayload(bs[:4])
	assert.False(t, ok)
}
