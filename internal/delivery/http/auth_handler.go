package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"signalboard/internal/auth"
	"signalboard/internal/delivery/http/dto"
	"signalboard/internal/domain"
	"signalboard/internal/repository"
)

// User-facing auth messages. Login deliberately uses one message for
// unknown email and wrong password so callers cannot enumerate accounts.
const (
	msgSignupValidation = "Email and password (min 6 chars) are required."
	msgDuplicateEmail   = "Email already registered."
	msgSignupFailed     = "Signup failed."
	msgLoginValidation  = "Email and password are required."
	msgInvalidCreds     = "Invalid credentials."
	msgLoginFailed      = "Login failed."
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userRepo domain.UserRepository
	codec    *auth.TokenCodec
	cookies  *auth.CookieManager
	log      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo domain.UserRepository, codec *auth.TokenCodec, cookies *auth.CookieManager, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		codec:    codec,
		cookies:  cookies,
		log:      log,
	}
}

// Signup handles account creation
// POST /api/auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, msgSignupValidation)
	}
	if err := c.Validate(&req); err != nil {
		return BadRequestResponse(c, msgSignupValidation)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Look up first for a clean duplicate error; the unique index still
	// backstops a concurrent signup race.
	if _, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return BadRequestResponse(c, msgDuplicateEmail)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		h.log.WithError(err).Error("signup: user lookup failed")
		return InternalServerErrorResponse(c, msgSignupFailed)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.WithError(err).Error("signup: password hashing failed")
		return InternalServerErrorResponse(c, msgSignupFailed)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        repository.NormalizeEmail(req.Email),
		PasswordHash: hashed,
		CreatedAt:    time.Now(),
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return BadRequestResponse(c, msgDuplicateEmail)
		}
		h.log.WithError(err).Error("signup: user creation failed")
		return InternalServerErrorResponse(c, msgSignupFailed)
	}

	token, err := h.codec.Sign(user.ID, user.Email)
	if err != nil {
		h.log.WithError(err).Error("signup: token signing failed")
		return InternalServerErrorResponse(c, msgSignupFailed)
	}
	h.cookies.Set(c, token)

	return c.JSON(http.StatusCreated, dto.AuthResponse{
		User: dto.UserOutput{Email: user.Email, ID: user.ID.String()},
	})
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, msgLoginValidation)
	}
	if err := c.Validate(&req); err != nil {
		return BadRequestResponse(c, msgLoginValidation)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return UnauthorizedResponse(c, msgInvalidCreds)
		}
		h.log.WithError(err).Error("login: user lookup failed")
		return InternalServerErrorResponse(c, msgLoginFailed)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return UnauthorizedResponse(c, msgInvalidCreds)
	}

	token, err := h.codec.Sign(user.ID, user.Email)
	if err != nil {
		h.log.WithError(err).Error("login: token signing failed")
		return InternalServerErrorResponse(c, msgLoginFailed)
	}
	h.cookies.Set(c, token)

	return c.JSON(http.StatusOK, dto.AuthResponse{
		User: dto.UserOutput{Email: user.Email, ID: user.ID.String()},
	})
}

// Logout clears the session cookie. Idempotent; succeeds with or without
// an existing session.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, dto.LogoutResponse{Success: true})
}

// Me returns the session claims, or a null user when the session is
// absent or invalid. Never an error status: no session is a state, not
// a failure.
// GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	token, ok := h.cookies.ReadFromRequest(c.Request())
	if !ok {
		return c.JSON(http.StatusOK, dto.MeResponse{User: nil})
	}

	claims, err := h.codec.Verify(token)
	if err != nil {
		return c.JSON(http.StatusOK, dto.MeResponse{User: nil})
	}

	return c.JSON(http.StatusOK, dto.MeResponse{
		User: &dto.SessionOutput{Email: claims.Email, UserID: claims.UserID.String()},
	})
}
