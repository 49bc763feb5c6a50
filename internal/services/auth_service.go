package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/maxari-shop/service-returns/internal/auth"
	"github.com/maxari-shop/service-returns/internal/models"
	"github.com/maxari-shop/service-returns/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password. The
	// two cases are never distinguished in the response.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already registered")
)

// RegisterInput is the admin registration payload.
type RegisterInput struct {
	LastName  string `json:"nume"`
	FirstName string `json:"prenume"`
	Email     string `json:"email"`
	Password  string `json:"parola"`
}

// AuthService handles admin registration and login.
type AuthService struct {
	users      *repository.UserRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwtManager: jwtManager, logger: logger}
}

// Register creates a new admin account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || !emailShape.MatchString(input.Email) {
		return nil, &ValidationError{Field: "email", Message: "adresa de email este invalidă"}
	}
	if len(input.Password) < 8 {
		return nil, &ValidationError{Field: "parola", Message: "parola trebuie să aibă cel puțin 8 caractere"}
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		LastName:     strings.TrimSpace(input.LastName),
		FirstName:    strings.TrimSpace(input.FirstName),
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("admin registered", zap.String("email", user.Email))
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user.ID.String(), user.Email)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
