package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"salonbook/models"
)

// QueryCache holds busy intervals fetched during one logical query so that
// paging with a cursor does not re-read external calendars. Entries are
// keyed by (query id, staff id) and expire quickly: a fresh query id always
// sees fresh calendars.
type QueryCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewQueryCache(client *redis.Client, logger *zap.Logger) *QueryCache {
	return &QueryCache{Client: client, TTL: 90 * time.Second, Logger: logger}
}

func (qc *QueryCache) key(queryID, staffID string) string {
	return fmt.Sprintf("busyq:%s:%s", queryID, staffID)
}

// Get returns the cached busy set for a staff member, if present. Cache
// failures behave as misses.
func (qc *QueryCache) Get(ctx context.Context, queryID, staffID string) ([]models.BusyInterval, bool) {
	raw, err := qc.Client.Get(ctx, qc.key(queryID, staffID)).Result()
	if err != nil {
		if err != redis.Nil {
			qc.Logger.Warn("query cache read failed", zap.String("staffID", staffID), zap.Error(err))
		}
		return nil, false
	}
	var busy []models.BusyInterval
	if err := json.Unmarshal([]byte(raw), &busy); err != nil {
		qc.Logger.Warn("query cache entry corrupt", zap.String("staffID", staffID), zap.Error(err))
		return nil, false
	}
	return busy, true
}

// Put stores a busy set for the remainder of the logical query.
func (qc *QueryCache) Put(ctx context.Context, queryID, staffID string, busy []models.BusyInterval) {
	data, err := json.Marshal(busy)
	if err != nil {
		return
	}
	if err := qc.Client.Set(ctx, qc.key(queryID, staffID), data, qc.TTL).Err(); err != nil {
		qc.Logger.Warn("query cache write failed", zap.String("staffID", staffID), zap.Error(err))
	}
}
