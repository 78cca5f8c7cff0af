package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL is how long a signed session token (and its cookie) lives.
// There is no refresh or rotation; a token is valid until natural expiry.
const SessionTTL = 7 * 24 * time.Hour

// Token verification errors
var (
	ErrTokenExpired   = errors.New("session token expired")
	ErrTokenInvalid   = errors.New("session token signature invalid")
	ErrTokenMalformed = errors.New("session token malformed")
)

// SessionClaims are the identity claims embedded in a session token
type SessionClaims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens. The signing key is
// process-wide configuration, loaded once and constant for the process
// lifetime. The clock is injectable for expiry tests.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewTokenCodec creates a TokenCodec using the wall clock
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewTokenCodecWithClock creates a TokenCodec with an explicit clock
func NewTokenCodecWithClock(secret string, now func() time.Time) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		now:    now,
	}
}

// Sign produces a compact HS256 token carrying the user identity plus an
// absolute expiry 7 days out.
func (c *TokenCodec) Sign(userID uuid.UUID, email string) (string, error) {
	issued := c.now()
	claims := &SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token and returns its claims.
// Failures map to ErrTokenExpired, ErrTokenInvalid, or ErrTokenMalformed.
func (c *TokenCodec) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
