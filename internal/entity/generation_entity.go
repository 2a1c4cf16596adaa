package entity

import (
	"time"

	"github.com/google/uuid"
)

type GenerationStatus string

const (
	GenerationStatusPending   GenerationStatus = "pending"
	GenerationStatusRunning   GenerationStatus = "running"
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GenerationJob tracks one streaming article run against a record.
type GenerationJob struct {
	Id                  uuid.UUID
	SessionUuid         uuid.UUID
	RecordPosition      int
	Status              GenerationStatus
	OutlineSnapshotHash string
	Error               *string
	StartedAt           time.Time
	FinishedAt          *time.Time
	CreatedAt           time.Time
}
