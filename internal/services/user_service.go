package services

import (
	"context"
	"fmt"

	"github.com/audiojones/admin-api/internal/helpers"
	"github.com/audiojones/admin-api/internal/models"
)

// UserService wraps the identity provider for session operations and the
// profile store for everything else.
type UserService struct {
	authRepo models.AuthRepo
	userRepo models.UserRepo
}

func NewUserService(authRepo models.AuthRepo, userRepo models.UserRepo) *UserService {
	return &UserService{authRepo: authRepo, userRepo: userRepo}
}

func (us *UserService) Signup(ctx context.Context, email, password string) (interface{}, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if !helpers.IsPasswordStrong(password) {
		return nil, fmt.Errorf("password must be at least 8 characters and include upper, lower, number and special characters")
	}

	user, err := us.authRepo.Signup(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (us *UserService) Authenticate(ctx context.Context, email, password string) (interface{}, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	return us.authRepo.Authenticate(ctx, email, password)
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	return us.authRepo.RefreshToken(ctx, refreshToken)
}

func (us *UserService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return us.userRepo.GetUserByID(ctx, uid)
}

func (us *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	return us.userRepo.GetUserByEmail(ctx, email)
}
