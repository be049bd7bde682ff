package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvedNameMergesShapes(t *testing.T) {
	assert.Equal(t, "Asha Rao", registerReq{Name: " Asha Rao "}.resolvedName())
	assert.Equal(t, "Asha Rao",
		registerReq{Fullname: &fullnameReq{Firstname: "Asha", Lastname: "Rao"}}.resolvedName())
	assert.Equal(t, "Asha",
		registerReq{Fullname: &fullnameReq{Firstname: " Asha "}}.resolvedName())
	// The plain name wins when both shapes are present.
	assert.Equal(t, "Plain",
		registerReq{Name: "Plain", Fullname: &fullnameReq{Firstname: "Other"}}.resolvedName())
	assert.Empty(t, registerReq{}.resolvedName())
}

func postRegister(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	// Validation short-circuits before any collaborator is touched.
	h := &AuthHandler{}
	require.NoError(t, h.Register(c))
	return rec
}

func TestRegisterNameLimitCountsCharacters(t *testing.T) {
	rec := postRegister(t, `{"name":"`+strings.Repeat("a", 51)+`","email":"a@b.co","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name cannot exceed 50 characters")

	// 30 characters of Devanagari is 90 bytes but still within the limit;
	// the request fails on the short password instead.
	rec = postRegister(t, `{"name":"`+strings.Repeat("न", 30)+`","email":"a@b.co","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 6 characters")
}

func TestEmailPattern(t *testing.T) {
	for _, good := range []string{"a@b.co", "first.last@sub.domain.org", "x-1@y.in"} {
		assert.True(t, emailRe.MatchString(good), good)
	}
	for _, bad := range []string{"", "plain", "@nouser.com", "user@", "user@host", "user @host.com"} {
		assert.False(t, emailRe.MatchString(bad), bad)
	}
}

func TestPhonePattern(t *testing.T) {
	assert.True(t, phoneRe.MatchString("9876543210"))
	assert.True(t, phoneRe.MatchString("6000000000"))
	for _, bad := range []string{"1234567890", "98765", "98765432101", "98765abc10", ""} {
		assert.False(t, phoneRe.MatchString(bad), bad)
	}
}
