package entity

import (
	"time"
)

// User represents a registered user in the system
type User struct {
	ID           string       `bson:"_id,omitempty" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Email        string       `bson:"email" json:"email"`
	PasswordHash string       `bson:"password_hash,omitempty" json:"-"`
	Role         UserRole     `bson:"role" json:"role"`
	AuthProvider AuthProvider `bson:"auth_provider" json:"auth_provider"`
	PhotoURL     *string      `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Description  *string      `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
}

// UserRole represents the role of a user in the system
type UserRole string

const (
	UserRoleStudent  UserRole = "student"
	UserRoleEducator UserRole = "educator"
	UserRoleAdmin    UserRole = "admin"
)

func DefaultRole() UserRole {
	return UserRoleStudent
}

// AuthProvider identifies how a user authenticates. A "google" user carries
// no password hash and cannot use password-based login.
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)
