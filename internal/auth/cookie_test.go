package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCookieManager_Set(t *testing.T) {
	c, rec := newEchoContext(t)
	m := NewCookieManager(true)

	m.Set(c, "signed-token")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int(SessionTTL.Seconds()), cookie.MaxAge)
}

func TestCookieManager_Clear(t *testing.T) {
	c, rec := newEchoContext(t)
	m := NewCookieManager(true)

	m.Clear(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestCookieManager_ReadFromRequest(t *testing.T) {
	m := NewCookieManager(true)

	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"absent", "", "", false},
		{"present", CookieName + "=tok123", "tok123", true},
		{"among others", "theme=dark; " + CookieName + "=tok123; lang=en", "tok123", true},
		{"empty value", CookieName + "=", "", false},
		{"different cookie only", "theme=dark", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Cookie", tt.header)
			}
			got, ok := m.ReadFromRequest(req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
