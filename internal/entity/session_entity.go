package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusArchived SessionStatus = "archived"
)

// UserSession is the writing session aggregate root. Records hang off it by
// session uuid; the current position is derived by scanning the records in
// creation order for CurrentRecordId, never stored as an index.
type UserSession struct {
	Uuid            uuid.UUID
	OwnerUserId     *uuid.UUID
	CurrentRecordId *uuid.UUID
	LockVersion     int
	Status          SessionStatus
	MaxHistory      int
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
