package dto

import "time"

// RegisterRequest payload for password registration.
type RegisterRequest struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	UserID   int64  `json:"user_id"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is one directory entry.
type UserResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}
