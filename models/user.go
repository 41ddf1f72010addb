package models

import (
	"time"
)

// User model
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Nome      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:120;not null;uniqueIndex"`
	SenhaHash []byte `gorm:"not null"`
	Admin     bool   `gorm:"default:false;not null"`
}
