package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectfe/connectfe-api/internal/utils"
)

func invoke(mw echo.MiddlewareFunc, setup func(echo.Context)) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	_ = h(c)
	return rec
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	rec := invoke(RequireRole("CHURCH"), func(c echo.Context) {
		c.Set("role", "CHURCH")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	rec := invoke(RequireRole("CHURCH"), func(c echo.Context) {
		c.Set("role", "MEMBER")
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	rec := invoke(RequireRole("CHURCH", "MEMBER"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	const secret = "test-secret"
	at, err := utils.NewAccessToken(secret, 7, "MEMBER", 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRole interface{}
	h := JWTAuth(secret)(func(c echo.Context) error {
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MEMBER", gotRole)
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := JWTAuth("secret")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	_ = h(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	_ = h(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
