package model

import (
	"time"

	"github.com/google/uuid"
)

type UserSession struct {
	Uuid            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerUserId     *uuid.UUID `gorm:"type:uuid;index"`
	CurrentRecordId *uuid.UUID `gorm:"type:uuid"`
	// LockVersion guards concurrent position moves; every successful update
	// increments it and updates compare against the version they read.
	LockVersion int       `gorm:"not null;default:0"`
	Status      string    `gorm:"type:varchar(50);not null;default:'active'"`
	MaxHistory  int       `gorm:"not null;default:50"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}
