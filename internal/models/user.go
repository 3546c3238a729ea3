package models

import (
	"context"
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleClient   UserRole = "client"
	RoleInternal UserRole = "internal"
)

// User is the profile record kept alongside the identity provider's account.
// Auth state (password, sessions) lives in the identity provider; role and
// tenant membership live here and are immutable after signup.
type User struct {
	UID           string    `bson:"_id" json:"uid"`
	Email         string    `bson:"email" json:"email" validate:"required,email"`
	Role          UserRole  `bson:"role" json:"role"`
	TenantID      string    `bson:"tenant_id" json:"tenant_id"`
	DisplayName   string    `bson:"display_name" json:"display_name"`
	EmailVerified bool      `bson:"email_verified" json:"email_verified"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

type UserRepo interface {
	GetUserByID(ctx context.Context, uid string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CountClientsCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// AuthRepo wraps the identity provider's session operations.
type AuthRepo interface {
	Signup(ctx context.Context, email, password string) (interface{}, error)
	Authenticate(ctx context.Context, email, password string) (interface{}, error)
	RefreshToken(ctx context.Context, refreshToken string) (interface{}, error)
}
