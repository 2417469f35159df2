package database

import (
	"context"
	"fmt"

	"github.com/AleksKostadinov/todo-app/config"
	"github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/AleksKostadinov/todo-app/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// Stores bundles the repositories handed to consuming modules.
type Stores struct {
	Tasks task.Repository
	Users user.Repository
}

// PluginModule owns the database connection. Plugins start before regular
// modules and stop after them, so the stores outlive every consumer.
type PluginModule struct {
	container types.ServiceContainer
	cfg       config.DatabaseConfig
	logger    types.Logger

	db     *gorm.DB
	pool   *pgxpool.Pool
	stores Stores
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the database plugin for the configured driver.
func NewPluginModule(cfg config.DatabaseConfig, logger types.Logger) *PluginModule {
	return &PluginModule{
		cfg:    cfg,
		logger: logger.WithModule("database"),
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "database"
}

// Start opens the connection and prepares the schema.
func (m *PluginModule) Start(ctx context.Context) error {
	switch m.cfg.Driver {
	case config.DriverPostgres:
		pool, err := OpenPostgres(ctx, m.cfg.URL)
		if err != nil {
			return err
		}
		m.pool = pool
		m.stores = NewPostgresStores(pool)
	default:
		db, err := OpenSQLite(m.cfg.Path, m.cfg.Debug)
		if err != nil {
			return err
		}
		m.db = db
		m.stores = NewGormStores(db)
	}

	m.logger.Info("Database plugin started", "driver", m.driver())
	return nil
}

// Stop closes the connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.pool != nil {
		m.pool.Close()
	}
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				return fmt.Errorf("failed to close database: %w", err)
			}
		}
	}
	m.logger.Info("Database plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the repositories. Only valid after Start.
func (m *PluginModule) Port() Stores {
	return m.stores
}

// Health pings the underlying connection.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	var err error
	switch {
	case m.pool != nil:
		err = m.pool.Ping(ctx)
	case m.db != nil:
		sqlDB, dbErr := m.db.DB()
		if dbErr != nil {
			err = dbErr
		} else {
			err = sqlDB.PingContext(ctx)
		}
	default:
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.driver(),
		},
	}
}

func (m *PluginModule) driver() string {
	if m.cfg.Driver == "" {
		return config.DriverSQLite
	}
	return m.cfg.Driver
}
