package model

import (
	"time"

	"github.com/google/uuid"
)

type GenerationJob struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionUuid         uuid.UUID `gorm:"type:uuid;not null;index"`
	RecordPosition      int       `gorm:"not null"`
	Status              string    `gorm:"type:varchar(20);not null;default:'pending'"`
	OutlineSnapshotHash string    `gorm:"type:varchar(64)"`
	Error               *string   `gorm:"type:text"`
	StartedAt           time.Time
	FinishedAt          *time.Time
	CreatedAt           time.Time `gorm:"autoCreateTime"`
}

func (GenerationJob) TableName() string {
	return "generation_jobs"
}
