package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	Admin        bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Role JWT 里的角色串
func (u User) Role() string {
	if u.Admin {
		return RoleAdmin
	}
	return RoleUser
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	SetAdmin(ctx context.Context, id string, admin bool) error
}
