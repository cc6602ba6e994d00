package user

import (
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"context"
	defError "errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, user *domain.User) error
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
	IncreaseTokenVersion(ctx context.Context, id uint64) error
}

// DefaultService implements Service
type DefaultService struct {
	repository UserRepository
}

// NewService creates a new user service
func NewService(repository UserRepository) Service {
	return &DefaultService{repository: repository}
}

// Register registers a new user
func (s *DefaultService) Register(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := s.repository.FindByEmail(ctx, user.Email)
	if err != nil && !defError.Is(err, domain.ErrNotFound) {
		return errors.Storage("find user by email", err)
	}
	if err == nil {
		return errors.UnprocessableEntity("User already registered", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.UnprocessableEntity("Password can't be used", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = true
	user.TokenVersion = 1

	if err := s.repository.Create(ctx, user); err != nil {
		if defError.Is(err, domain.ErrDuplicate) {
			return errors.UnprocessableEntity("User already registered", err)
		}
		return errors.Storage("create user", err)
	}
	return nil
}

// Login authenticates a user
func (s *DefaultService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repository.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if defError.Is(err, domain.ErrNotFound) {
			return nil, errors.Unauthorized("Invalid email or password", err)
		}
		return nil, errors.Storage("find user by email", err)
	}

	if !user.IsActive {
		return nil, errors.Unauthorized("User is not active", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid email or password", err)
	}

	return user, nil
}

// GetUserByID gets a user by ID
func (s *DefaultService) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	user, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, domain.ErrNotFound) {
			return nil, errors.NotFound("User not found", err)
		}
		return nil, errors.Storage("find user", err)
	}
	return user, nil
}

// IncreaseTokenVersion logs the user out everywhere
func (s *DefaultService) IncreaseTokenVersion(ctx context.Context, id uint64) error {
	if err := s.repository.IncreaseTokenVersion(ctx, id); err != nil {
		return errors.Storage("increase token version", err)
	}
	return nil
}
