package database

import (
	"fmt"

	"github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/AleksKostadinov/todo-app/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens (or creates) the SQLite database at path and migrates it.
// The pool is limited to one connection: SQLite serialises writers anyway,
// and ":memory:" databases exist per connection.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&user.User{}, &task.Task{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewGormStores builds the GORM-backed repositories.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Tasks: NewGormTaskRepository(db),
		Users: NewGormUserRepository(db),
	}
}
