package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/doorlist/doorlist/internal/domain"
	"github.com/doorlist/doorlist/internal/repo/postgres"
	"github.com/doorlist/doorlist/pkg/auth"
	"github.com/doorlist/doorlist/pkg/config"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike; callers must not be able to tell which factor failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the email doesn't resolve, so the
// unknown-email path costs the same as a real verification.
var dummyHash, _ = argon2id.CreateHash("doorlist-timing-pad", argon2id.DefaultParams)

type AuthService interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	HashPassword(password string) (string, error)
}

type authService struct {
	users  postgres.UserRepo
	config *config.Config
}

func NewAuthService(users postgres.UserRepo, cfg *config.Config) AuthService {
	return &authService{users: users, config: cfg}
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		argon2id.ComparePasswordAndHash(req.Password, dummyHash)
		return nil, ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.NewToken(user.ID, user.Role, s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &domain.LoginResponse{Token: token}, nil
}

func (s *authService) HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}
