package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for the stub login flow. Credentials are not
// verified against anything; the shape exists so clients can keep their forms.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest holds the stub registration payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse returns the issued access token.
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Email       string    `json:"email"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
