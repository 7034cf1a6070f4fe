package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/btime-solutions/chamados-service/internal/domain"
)

const boardCacheKey = "chamados:board"

// BoardCache caches board reads between writes. The presentation layer
// treats cached data as ground truth, so every write path must call
// Invalidate explicitly; a stale board is a correctness bug, not a
// performance one.
type BoardCache interface {
	GetBoard(ctx context.Context) ([]domain.Ticket, bool)
	SetBoard(ctx context.Context, tickets []domain.Ticket)
	Invalidate(ctx context.Context)
}

type redisBoardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisBoardCache wraps a Redis client as a board cache.
func NewRedisBoardCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) BoardCache {
	return &redisBoardCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisBoardCache) GetBoard(ctx context.Context) ([]domain.Ticket, bool) {
	raw, err := c.client.Get(ctx, boardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("board cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		c.logger.Warn("board cache payload corrupt; dropping", zap.Error(err))
		_ = c.client.Del(ctx, boardCacheKey).Err()
		return nil, false
	}
	return tickets, true
}

func (c *redisBoardCache) SetBoard(ctx context.Context, tickets []domain.Ticket) {
	raw, err := json.Marshal(tickets)
	if err != nil {
		c.logger.Warn("board cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, boardCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("board cache write failed", zap.Error(err))
	}
}

func (c *redisBoardCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, boardCacheKey).Err(); err != nil {
		c.logger.Warn("board cache invalidation failed", zap.Error(err))
	}
}

// noopBoardCache disables caching entirely.
type noopBoardCache struct{}

// NewNoopBoardCache returns a cache that never hits.
func NewNoopBoardCache() BoardCache {
	return noopBoardCache{}
}

func (noopBoardCache) GetBoard(context.Context) ([]domain.Ticket, bool) { return nil, false }
func (noopBoardCache) SetBoard(context.Context, []domain.Ticket)        {}
func (noopBoardCache) Invalidate(context.Context)                       {}
