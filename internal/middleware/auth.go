package middleware

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"signalboard/internal/auth"
)

// Context keys set by the session middleware
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// RequireSession validates the session cookie and sets the identity claims
// on the request context. Intended for JSON API routes: missing or invalid
// sessions get a 401.
//
// Claims are trusted as-is; the user row is not re-checked per request.
func RequireSession(codec *auth.TokenCodec, cookies *auth.CookieManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := sessionClaims(c, codec, cookies)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextEmail, claims.Email)
			return next(c)
		}
	}
}

// RequireSessionPage is the server-rendered variant: unauthenticated
// requests are redirected to the login page instead of receiving JSON.
func RequireSessionPage(codec *auth.TokenCodec, cookies *auth.CookieManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := sessionClaims(c, codec, cookies)
			if err != nil {
				return c.Redirect(http.StatusFound, "/login")
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextEmail, claims.Email)
			return next(c)
		}
	}
}

func sessionClaims(c echo.Context, codec *auth.TokenCodec, cookies *auth.CookieManager) (*auth.SessionClaims, error) {
	token, ok := cookies.ReadFromRequest(c.Request())
	if !ok {
		return nil, fmt.Errorf("missing session cookie")
	}
	return codec.Verify(token)
}

// GetUserID extracts the authenticated user ID from echo context
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(ContextUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user_id not found in context")
	}
	return userID, nil
}

// GetEmail extracts the authenticated email from echo context
func GetEmail(c echo.Context) (string, error) {
	email, ok := c.Get(ContextEmail).(string)
	if !ok {
		return "", fmt.Errorf("email not found in context")
	}
	return email, nil
}
