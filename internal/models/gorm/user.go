package gorm

import (
	"time"

	"raildash/internal/constants"
)

type User struct {
	ID             string             `gorm:"column:id;primaryKey;type:uuid"`
	Username       string             `gorm:"column:username;size:50;uniqueIndex;not null"`
	HashedPassword string             `gorm:"column:hashed_password;size:256;not null"`
	Role           constants.UserRole `gorm:"column:role;size:20;not null;default:viewer"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
