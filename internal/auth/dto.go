package auth

import "stocktally/internal/users"

// RegisterRequest holds the validated payload for account creation.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// LoginRequest holds credentials presented at login.
type LoginRequest struct {
	Email    string
	Password string
}

// RefreshRequest carries the expired access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string
	RefreshToken string
}

// SessionResponse is returned from register and login.
type SessionResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshResponse carries the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
