package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an admin user of the directory.
type User struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName     string    `gorm:"column:full_name;not null" json:"full_name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Role         string    `gorm:"column:role;type:varchar(20);default:admin" json:"role"`
	IsActive     bool      `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
