package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AleksKostadinov/todo-app/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// AuthModule provides authentication services.
type AuthModule struct {
	service    *AuthService
	jwtConfig  JWTConfig
	bcryptCost int
	db         *database.PluginModule
	logger     types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.UsePluginModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(jwtConfig JWTConfig, bcryptCost int, logger types.Logger) *AuthModule {
	return &AuthModule{
		jwtConfig:  jwtConfig,
		bcryptCost: bcryptCost,
		logger:     logger.WithModule("auth"),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// SetPlugin receives the database plugin from the framework.
func (m *AuthModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "database" {
		return
	}
	db, ok := plugin.(*database.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for database",
			"alias", alias,
			"expected", "*database.PluginModule")
		return
	}
	m.db = db
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}

	m.service = NewAuthService(
		m.db.Port().Users,
		NewPasswordHasherWithCost(m.bcryptCost),
		NewJWTManager(m.jwtConfig),
	)

	m.logger.Info("Auth module started", "issuer", m.jwtConfig.Issuer, "token_ttl", m.jwtConfig.TokenDuration.String())
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	m.logger.Info("Auth module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	m.logger.Info("Registered services", "services", "register, login, validate-token, get-user")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (SessionResponse, error) {
	session, err := m.service.Register(ctx, req)
	if err != nil {
		if code := errorCode(err); code != "" {
			return SessionResponse{Error: code}, nil
		}
		m.logger.Error("Registration failed", "username", req.Username, "error", err)
		return SessionResponse{}, err
	}

	m.logger.Info("User registered", "user_id", session.UserID, "username", session.Username)
	return SessionResponse{
		Token:     session.Token,
		UserID:    session.UserID,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (SessionResponse, error) {
	session, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		if code := errorCode(err); code != "" {
			m.logger.Info("Login rejected", "username", req.Username, "reason", code)
			return SessionResponse{Error: code}, nil
		}
		m.logger.Error("Login failed", "username", req.Username, "error", err)
		return SessionResponse{}, err
	}

	return SessionResponse{
		Token:     session.Token,
		UserID:    session.UserID,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		code := errorCode(err)
		if code == "" {
			code = CodeInvalidToken
		}
		return ValidateTokenResponse{Valid: false, Error: code}, nil
	}

	return ValidateTokenResponse{
		Valid:    true,
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	u, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		if code := errorCode(err); code != "" {
			return GetUserResponse{Error: code}, nil
		}
		return GetUserResponse{}, err
	}

	return GetUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}, nil
}
