package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/AleksKostadinov/todo-app/domain/user"
	"gorm.io/gorm"
)

// GormUserRepository handles user persistence using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*GormUserRepository)(nil)

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user in the database.
func (r *GormUserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID finds a user by ID.
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername finds a user by username.
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// UsernameExists checks if a user with the given username exists.
func (r *GormUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&user.User{}).Where("username = ?", username).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check username: %w", result.Error)
	}
	return count > 0, nil
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	result := r.db.WithContext(ctx).First(&u, query, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}
	return &u, nil
}
