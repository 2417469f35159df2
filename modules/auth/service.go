package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/AleksKostadinov/todo-app/domain/user"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned when login credentials are invalid.
var ErrInvalidCredentials = errors.New("invalid username or password")

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// AuthService handles authentication business logic. It implements AuthPort
// directly so it can be used in-process as well as behind the service container.
type AuthService struct {
	repo   domain.Repository
	hasher *PasswordHasher
	jwt    *JWTManager
}

var _ AuthPort = (*AuthService)(nil)

// NewAuthService creates a new AuthService.
func NewAuthService(repo domain.Repository, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Session, error) {
	username := strings.TrimSpace(in.Username)
	if err := ValidateRegistration(username, in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueSession(u)
}

// Login authenticates a user and returns a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(u)
}

// ValidateToken resolves a session token to the identity it was issued for.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) issueSession(u *domain.User) (*domain.Session, error) {
	token, expiresAt, err := s.jwt.Issue(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &domain.Session{
		Token:     token,
		UserID:    u.ID,
		Username:  u.Username,
		ExpiresAt: expiresAt,
	}, nil
}
