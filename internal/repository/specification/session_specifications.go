package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByUuid filters session rows by their uuid primary key.
type ByUuid struct {
	Uuid uuid.UUID
}

func (s ByUuid) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uuid = ?", s.Uuid)
}

// BySessionUuid filters rows belonging to a writing session.
type BySessionUuid struct {
	SessionUuid uuid.UUID
}

func (s BySessionUuid) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_uuid = ?", s.SessionUuid)
}

// ByRecordId filters conversation messages by their parent record.
type ByRecordId struct {
	RecordId uuid.UUID
}

func (s ByRecordId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("record_id = ?", s.RecordId)
}

// ByDocumentId filters chunks by their parent library document.
type ByDocumentId struct {
	DocumentId uuid.UUID
}

func (s ByDocumentId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentId)
}

// ByName filters library documents by file name.
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// ByStatus filters by a status column.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// OrderByPosition orders history records in creation order.
type OrderByPosition struct{}

func (s OrderByPosition) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("record_position ASC")
}

// OrderByMessageOrder orders conversation messages for replay.
type OrderByMessageOrder struct{}

func (s OrderByMessageOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("message_order ASC")
}
