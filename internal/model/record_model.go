package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type HistoryRecord struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionUuid uuid.UUID `gorm:"type:uuid;not null;index:idx_records_session_position,priority:1"`
	// RecordPosition orders records within a session. API positions are the
	// index in that ordering at query time, so they stay dense after pruning.
	RecordPosition   int            `gorm:"not null;index:idx_records_session_position,priority:2"`
	Topic            string         `gorm:"type:text"`
	Outline          string         `gorm:"type:text"`
	ArticleChapters  datatypes.JSON `gorm:"type:jsonb"`
	ReferencesData   datatypes.JSON `gorm:"type:jsonb"`
	NextMessageOrder int            `gorm:"not null;default:0"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (HistoryRecord) TableName() string {
	return "history_records"
}

type ConversationMessage struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecordId     uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_record_order,priority:1"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Content      string    `gorm:"type:text"`
	MessageOrder int       `gorm:"not null;index:idx_messages_record_order,priority:2"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
