package models

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the auth provider; this service never persists it.
type User struct {
	ID               uuid.UUID      `json:"id"`
	Email            string         `json:"email"`
	Phone            *string        `json:"phone"`
	Role             string         `json:"role,omitempty"`
	Aud              string         `json:"aud,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at"`
	AppMetadata      map[string]any `json:"app_metadata,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
}

type AuthResponse struct {
	User    User     `json:"user"`
	Session *Session `json:"session"`
}

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenRefresh struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
