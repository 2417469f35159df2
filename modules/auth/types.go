package auth

import "time"

// Request and response types for the auth services. Domain failures travel
// in the Error field as a code (see errors.go); the transport error is
// reserved for infrastructure problems.

// RegisterRequest is the request for the register service.
type RegisterRequest = RegisterInput

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token     string    `json:"token,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// LoginRequest is the request for the login service.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidateTokenRequest is the request for the validate-token service.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the response from the validate-token service.
type ValidateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GetUserRequest is the request for the get-user service.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse is the response from the get-user service.
type GetUserResponse struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}
