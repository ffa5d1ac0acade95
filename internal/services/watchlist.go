package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"reelsync/internal/models"
)

const (
	watchlistCachePrefix = "watchlist:status:"
	watchlistCacheTTL    = 5 * time.Minute
)

// statusLister is the slice of the record store the watchlist service needs.
type statusLister interface {
	FindByStatus(ctx context.Context, status models.Status) ([]models.Record, error)
}

// WatchlistService serves the status listing commands, with a short-lived
// Redis cache in front of the record store. Catalog data is never cached,
// only the store's own list queries; any sync or status change invalidates.
type WatchlistService struct {
	store  statusLister
	redis  *redis.Client
	logger *logrus.Logger
}

func NewWatchlistService(store statusLister, redisClient *redis.Client, logger *logrus.Logger) *WatchlistService {
	return &WatchlistService{store: store, redis: redisClient, logger: logger}
}

// ListByStatus returns all records in the given watch state.
func (s *WatchlistService) ListByStatus(ctx context.Context, status models.Status) ([]models.Record, error) {
	cacheKey := watchlistCachePrefix + string(status)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var records []models.Record
			if err := json.Unmarshal([]byte(cached), &records); err == nil {
				s.logger.WithField("status", status).Debug("Retrieved watchlist from cache")
				return records, nil
			}
			s.logger.WithError(err).Warn("Failed to unmarshal cached watchlist")
		} else if err != redis.Nil {
			s.logger.WithError(err).Warn("Failed to read from Redis")
		}
	}

	records, err := s.store.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		data, err := json.Marshal(records)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to marshal watchlist for caching")
		} else if err := s.redis.Set(ctx, cacheKey, data, watchlistCacheTTL).Err(); err != nil {
			s.logger.WithError(err).Warn("Failed to write watchlist to cache")
		}
	}

	return records, nil
}

// Invalidate drops every cached listing. Called after any write to the
// record store so lists never show stale status.
func (s *WatchlistService) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	for _, status := range []models.Status{models.StatusToWatch, models.StatusWatching, models.StatusWatched} {
		if err := s.redis.Del(ctx, watchlistCachePrefix+string(status)).Err(); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate watchlist cache")
		}
	}
}
