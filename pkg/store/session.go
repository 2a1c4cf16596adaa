package store

import (
	"ai-writing-be/internal/entity"
)

// SessionState is the hydrated writing-session aggregate kept in the
// in-process cache: the session row plus its records in creation order.
// It is read-mostly; any write path drops the cached copy and re-hydrates
// from the database.
type SessionState struct {
	Session *entity.UserSession       `json:"session"`
	Records []*entity.HistoryRecord   `json:"records"`
}

// Len returns the number of history records in the session.
func (s *SessionState) Len() int {
	return len(s.Records)
}

// CurrentPos derives the active position by scanning the records for the
// session's current record id. A session with no records, or whose current
// record was pruned, resolves to 0.
func (s *SessionState) CurrentPos() int {
	if s.Session == nil || s.Session.CurrentRecordId == nil {
		return 0
	}
	for i, r := range s.Records {
		if r.Id == *s.Session.CurrentRecordId {
			return i
		}
	}
	return 0
}

// Record resolves a position to its record. Negative positions count from
// the end (-1 is the most recent record).
func (s *SessionState) Record(pos int) (*entity.HistoryRecord, bool) {
	if pos < 0 {
		pos = len(s.Records) + pos
	}
	if pos < 0 || pos >= len(s.Records) {
		return nil, false
	}
	return s.Records[pos], true
}
