package memory

import (
	"time"

	"ai-writing-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository caches hydrated session aggregates so read-heavy
// endpoints (records list, current position) skip the database. Entries
// are dropped on every write to the session or its records.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, expired entries purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(state *store.SessionState) {
	if state == nil || state.Session == nil {
		return
	}
	r.cache.Set(state.Session.Uuid.String(), state, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionUuid uuid.UUID) (*store.SessionState, bool) {
	if x, found := r.cache.Get(sessionUuid.String()); found {
		return x.(*store.SessionState), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionUuid uuid.UUID) {
	r.cache.Delete(sessionUuid.String())
}
