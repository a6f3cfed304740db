package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdo10/loopin/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTAuth(testSecret)
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTAuthMissingHeader(t *testing.T) {
	t.Parallel()
	rec, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	t.Parallel()
	at, err := utils.NewAccessToken(testSecret, 42, "free", 15)
	require.NoError(t, err)

	rec, c := runJWT(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// the subject claim lands in the request context
	assert.Equal(t, float64(42), c.Get("user_id"))
}

func TestJWTAuthWrongSecret(t *testing.T) {
	t.Parallel()
	at, err := utils.NewAccessToken("other-secret", 42, "free", 15)
	require.NoError(t, err)

	rec, _ := runJWT(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsPortalToken(t *testing.T) {
	t.Parallel()
	pt, err := utils.NewPortalToken(testSecret, 9, time.Minute)
	require.NoError(t, err)

	// portal tokens share the signing secret but must not open the dashboard
	rec, _ := runJWT(t, "Bearer "+pt.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPortalProjectID(t *testing.T) {
	t.Parallel()
	e := echo.New()

	pt, err := utils.NewPortalToken(testSecret, 9, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Portal-Token", pt.Token)
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, uint64(9), PortalProjectID(c, testSecret))

	// absent or garbage headers yield zero
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	assert.Zero(t, PortalProjectID(c, testSecret))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Portal-Token", "garbage")
	c = e.NewContext(req, httptest.NewRecorder())
	assert.Zero(t, PortalProjectID(c, testSecret))
}
