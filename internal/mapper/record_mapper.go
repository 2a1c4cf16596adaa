package mapper

import (
	"encoding/json"
	"time"

	"ai-writing-be/internal/entity"
	"ai-writing-be/internal/model"

	"gorm.io/datatypes"
)

// topicMirrorKey duplicates the record topic inside the references payload.
// Reference exports carry it so a chapter's citations stay attributable to
// their topic without joining back to the record.
const topicMirrorKey = "__topic"

type RecordMapper struct{}

func NewRecordMapper() *RecordMapper {
	return &RecordMapper{}
}

func (m *RecordMapper) ToEntity(r *model.HistoryRecord) *entity.HistoryRecord {
	if r == nil {
		return nil
	}

	var chapters []string
	if len(r.ArticleChapters) > 0 {
		_ = json.Unmarshal(r.ArticleChapters, &chapters)
	}

	references := make(map[string]entity.ReferenceMap)
	topic := r.Topic
	if len(r.ReferencesData) > 0 {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(r.ReferencesData, &raw); err == nil {
			for key, value := range raw {
				if key == topicMirrorKey {
					if topic == "" {
						_ = json.Unmarshal(value, &topic)
					}
					continue
				}
				var refs entity.ReferenceMap
				if err := json.Unmarshal(value, &refs); err == nil {
					references[key] = refs
				}
			}
		}
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.HistoryRecord{
		Id:               r.Id,
		SessionUuid:      r.SessionUuid,
		RecordPosition:   r.RecordPosition,
		Topic:            topic,
		Outline:          r.Outline,
		ArticleChapters:  chapters,
		ReferencesData:   references,
		NextMessageOrder: r.NextMessageOrder,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *RecordMapper) ToModel(r *entity.HistoryRecord) *model.HistoryRecord {
	if r == nil {
		return nil
	}

	chapters := r.ArticleChapters
	if chapters == nil {
		chapters = []string{}
	}
	chaptersJSON, _ := json.Marshal(chapters)

	rawRefs := make(map[string]interface{}, len(r.ReferencesData)+1)
	for key, refs := range r.ReferencesData {
		rawRefs[key] = refs
	}
	if r.Topic != "" {
		rawRefs[topicMirrorKey] = r.Topic
	}
	refsJSON, _ := json.Marshal(rawRefs)

	modelRecord := &model.HistoryRecord{
		Id:               r.Id,
		SessionUuid:      r.SessionUuid,
		RecordPosition:   r.RecordPosition,
		Topic:            r.Topic,
		Outline:          r.Outline,
		ArticleChapters:  datatypes.JSON(chaptersJSON),
		ReferencesData:   datatypes.JSON(refsJSON),
		NextMessageOrder: r.NextMessageOrder,
		CreatedAt:        r.CreatedAt,
	}
	if r.UpdatedAt != nil {
		modelRecord.UpdatedAt = *r.UpdatedAt
	}
	return modelRecord
}

func (m *RecordMapper) ToEntities(records []*model.HistoryRecord) []*entity.HistoryRecord {
	entities := make([]*entity.HistoryRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

// Conversation message mapping

func (m *RecordMapper) MessageToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}
	return &entity.ConversationMessage{
		Id:           msg.Id,
		RecordId:     msg.RecordId,
		Role:         msg.Role,
		Content:      msg.Content,
		MessageOrder: msg.MessageOrder,
		CreatedAt:    msg.CreatedAt,
	}
}

func (m *RecordMapper) MessageToModel(msg *entity.ConversationMessage) *model.ConversationMessage {
	if msg == nil {
		return nil
	}
	return &model.ConversationMessage{
		Id:           msg.Id,
		RecordId:     msg.RecordId,
		Role:         msg.Role,
		Content:      msg.Content,
		MessageOrder: msg.MessageOrder,
		CreatedAt:    msg.CreatedAt,
	}
}

func (m *RecordMapper) MessagesToEntities(msgs []*model.ConversationMessage) []*entity.ConversationMessage {
	entities := make([]*entity.ConversationMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}
