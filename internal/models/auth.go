package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DivisionLoginRequest holds the password entered to unlock a division.
type DivisionLoginRequest struct {
	Division string `json:"division" validate:"required"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"`
}

// DivisionLoginResponse returns the issued session token.
type DivisionLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Division    string    `json:"division"`
	AllAccess   bool      `json:"all_access"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for division sessions.
type JWTClaims struct {
	Division  string `json:"division"`
	AllAccess bool   `json:"all_access"`
	jwt.RegisteredClaims
}
