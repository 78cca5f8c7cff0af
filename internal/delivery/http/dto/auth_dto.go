package dto

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserOutput represents user data in signup/login responses
type UserOutput struct {
	Email string `json:"email"`
	ID    string `json:"id"`
}

// AuthResponse wraps the user object: {"user": {...}}
type AuthResponse struct {
	User UserOutput `json:"user"`
}

// SessionOutput represents the identity claims in the /me response
type SessionOutput struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// MeResponse is the /me payload; User is null when unauthenticated
type MeResponse struct {
	User *SessionOutput `json:"user"`
}

// LogoutResponse is the logout payload
type LogoutResponse struct {
	Success bool `json:"success"`
}
