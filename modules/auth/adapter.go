package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/AleksKostadinov/todo-app/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort is the identity provider other modules depend on.
type AuthPort interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Session, error)
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register creates an account through the register service.
func (a *AuthAdapter) Register(ctx context.Context, in RegisterInput) (*domain.Session, error) {
	req := RegisterRequest(in)
	var resp SessionResponse
	if err := callService(ctx, a.container, "register", &req, &resp); err != nil {
		return nil, err
	}
	return sessionFromResponse(resp)
}

// Login authenticates through the login service.
func (a *AuthAdapter) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	req := LoginRequest{Username: username, Password: password}
	var resp SessionResponse
	if err := callService(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	return sessionFromResponse(resp)
}

// ValidateToken validates a session token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := callService(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}

	if !resp.Valid {
		if resp.Error == "" {
			return nil, ErrInvalidToken
		}
		return nil, errorFromCode(resp.Error)
	}

	return &domain.Claims{
		UserID:   resp.UserID,
		Username: resp.Username,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	if err := callService(ctx, a.container, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errorFromCode(resp.Error)
	}

	return &domain.User{
		ID:        resp.ID,
		Username:  resp.Username,
		CreatedAt: resp.CreatedAt,
	}, nil
}

func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

func sessionFromResponse(resp SessionResponse) (*domain.Session, error) {
	if resp.Error != "" {
		return nil, errorFromCode(resp.Error)
	}
	return &domain.Session{
		Token:     resp.Token,
		UserID:    resp.UserID,
		Username:  resp.Username,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}
