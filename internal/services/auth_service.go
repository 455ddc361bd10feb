package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"raildash/internal/auth"
	"raildash/internal/constants"
	"raildash/internal/models/dtos"
	gormModels "raildash/internal/models/gorm"
)

const tokenTTL = 12 * time.Hour

// UserStore is the subset of the user repository the auth service needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*gormModels.User, error)
	Create(ctx context.Context, user *gormModels.User) error
}

// AuthService verifies credentials and issues JWTs. Password hashes use
// bcrypt; there is no session state beyond the signed token.
type AuthService struct {
	users  UserStore
	secret string
}

func NewAuthService(users UserStore, secret string) *AuthService {
	return &AuthService{users: users, secret: secret}
}

// Login checks the credentials and returns a signed token. Invalid username
// and invalid password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (*dtos.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &ValidationError{Message: "invalid username or password"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, &ValidationError{Message: "invalid username or password"}
	}

	token, err := auth.GenerateToken(s.secret, user.ID, user.Username, user.Role, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &dtos.LoginResponse{
		Token:    token,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// CreateUser registers a user with a bcrypt-hashed password.
func (s *AuthService) CreateUser(ctx context.Context, username, password string, role constants.UserRole) (*gormModels.User, error) {
	if username == "" || password == "" {
		return nil, &ValidationError{Message: "username and password are required"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &gormModels.User{
		Username:       username,
		HashedPassword: string(hashed),
		Role:           role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
