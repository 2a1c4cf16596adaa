package memory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PositionCache keeps the derived current position in Redis so multiple
// instances agree on it without re-scanning records. A nil client disables
// the cache; every accessor is safe to call on it.
type PositionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPositionCache(client *redis.Client) *PositionCache {
	return &PositionCache{
		client: client,
		ttl:    15 * time.Minute,
	}
}

func (c *PositionCache) key(sessionUuid uuid.UUID) string {
	return fmt.Sprintf("session:%s:current_pos", sessionUuid)
}

func (c *PositionCache) Get(ctx context.Context, sessionUuid uuid.UUID) (int, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, c.key(sessionUuid)).Result()
	if err != nil {
		return 0, false
	}
	pos, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return pos, true
}

func (c *PositionCache) Set(ctx context.Context, sessionUuid uuid.UUID, pos int) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, c.key(sessionUuid), strconv.Itoa(pos), c.ttl)
}

func (c *PositionCache) Invalidate(ctx context.Context, sessionUuid uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, c.key(sessionUuid))
}
