package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mvoronin/library-catalog/backend/internal/models"
	"github.com/mvoronin/library-catalog/backend/internal/store"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords, so a caller can't tell which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service implements registration and login over a UserStore.
type Service struct {
	users  UserStore
	tokens TokenIssuer
}

func NewService(users UserStore, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a new user. Uniqueness is checked username first, then
// email; only the first violation is reported. A concurrent registration
// that slips past both checks fails at insert time with the same duplicate
// error, translated by the store from the unique index violation.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, store.ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, store.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPassword(password, user.Password) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(ctx, user)
}
