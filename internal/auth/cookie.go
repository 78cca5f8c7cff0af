package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie, value = signed session token
const CookieName = "auth-token"

// CookieManager writes, clears, and reads the session cookie. One cookie,
// HTTP-only, SameSite=Strict, path /, max-age matching the token TTL.
type CookieManager struct {
	// Secure is disabled only for local development over plain HTTP
	Secure bool
}

// NewCookieManager creates a CookieManager
func NewCookieManager(secure bool) *CookieManager {
	return &CookieManager{Secure: secure}
}

// Set writes the session cookie
func (m *CookieManager) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(SessionTTL.Seconds()),
	})
}

// Clear deletes the session cookie
func (m *CookieManager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// ReadFromRequest parses the Cookie header directly and returns the session
// token, for paths that only have raw request headers to work with.
func (m *CookieManager) ReadFromRequest(r *http.Request) (string, bool) {
	header := r.Header.Get("Cookie")
	if header == "" {
		return "", false
	}
	for _, part := range strings.Split(header, ";") {
		if value, ok := strings.CutPrefix(strings.TrimSpace(part), CookieName+"="); ok {
			if value == "" {
				return "", false
			}
			return value, true
		}
	}
	return "", false
}
