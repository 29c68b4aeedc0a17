package entity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType classifies persisted tokens.
type TokenType string

const (
	TokenTypeRefresh TokenType = "refresh"
)

// Token is a persisted refresh token. Only the SHA256 hash of the token is
// stored; the raw value never touches the database.
type Token struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	TokenType TokenType `bson:"token_type" json:"token_type"`
	TokenHash string    `bson:"token_hash" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	Revoked   bool      `bson:"revoked" json:"revoked"`
}

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	UserID string   `json:"sub"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
