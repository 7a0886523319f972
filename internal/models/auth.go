package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims mirrors the access tokens issued by the main application server.
// Only the user ID is used here; it scopes plan caches and uploads.
type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
