package user

import (
	"time"
)

// User is an account that owns tasks.
type User struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;type:text" json:"username"`
	PasswordHash string    `gorm:"not null;type:text" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Session is what a successful login or registration hands back:
// the signed token to keep server-side and the identity it proves.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims is the identity resolved from a session token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
