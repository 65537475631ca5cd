// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/models"
)

const leadCachePrefix = "lead:score:"

// CachedLeadStore puts a Redis cache in front of another LeadStore. Cache
// failures are logged and never fail the call.
type CachedLeadStore struct {
	next   LeadStore
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedLeadStore(next LeadStore, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedLeadStore {
	return &CachedLeadStore{next: next, redis: rdb, ttl: ttl, logger: log}
}

func LeadCacheKey(sessionID string) string {
	return leadCachePrefix + sessionID
}

func (s *CachedLeadStore) SaveLead(ctx context.Context, record *models.LeadRecord) error {
	if err := s.next.SaveLead(ctx, record); err != nil {
		return err
	}
	s.put(ctx, record)
	return nil
}

func (s *CachedLeadStore) LatestLead(ctx context.Context, sessionID string) (*models.LeadRecord, error) {
	key := LeadCacheKey(sessionID)

	cached, err := s.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var record models.LeadRecord
		if jsonErr := json.Unmarshal(cached, &record); jsonErr == nil {
			return &record, nil
		}
		s.logger.Warn("discarding corrupt lead cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		s.logger.Warn("lead cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	record, err := s.next.LatestLead(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.put(ctx, record)
	return record, nil
}

func (s *CachedLeadStore) put(ctx context.Context, record *models.LeadRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	key := LeadCacheKey(record.SessionID)
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("lead cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
