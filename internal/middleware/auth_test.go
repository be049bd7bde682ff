package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayhq/stay-rental-api/internal/model"
)

func newTestContext(t *testing.T, mutate func(*http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestExtractTokenPrefersCookie(t *testing.T) {
	c, _ := newTestContext(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})
		r.Header.Set(echo.HeaderAuthorization, "Bearer header-token")
	})
	assert.Equal(t, "cookie-token", ExtractToken(c))
}

func TestExtractTokenFallsBackToBearerHeader(t *testing.T) {
	c, _ := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer header-token")
	})
	assert.Equal(t, "header-token", ExtractToken(c))
}

func TestExtractTokenIgnoresMalformedHeader(t *testing.T) {
	c, _ := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	})
	assert.Empty(t, ExtractToken(c))

	c, _ = newTestContext(t, nil)
	assert.Empty(t, ExtractToken(c))
}

func TestCurrentPrincipalAbsent(t *testing.T) {
	c, _ := newTestContext(t, nil)
	_, ok := CurrentPrincipal(c)
	assert.False(t, ok)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	c, rec := newTestContext(t, nil)
	SetPrincipal(c, &Principal{Role: model.RoleOwner})

	called := false
	h := RequireRole(model.RoleOwner)(func(echo.Context) error {
		called = true
		return nil
	})
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.NotEqual(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleForbidsOtherRole(t *testing.T) {
	c, rec := newTestContext(t, nil)
	SetPrincipal(c, &Principal{Role: model.RoleSeeker})

	h := RequireRole(model.RoleOwner)(func(echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleForbidsUnresolvedRequest(t *testing.T) {
	c, rec := newTestContext(t, nil)

	h := RequireRole(model.RoleSeeker, model.RoleOwner)(func(echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
