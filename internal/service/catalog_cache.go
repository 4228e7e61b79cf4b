package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"refillmap.com/gamification/internal/model"
	"refillmap.com/gamification/internal/repository"
)

const catalogCacheKey = "achievement_catalog"

// CatalogCache serves the read-only achievement catalog, keeping a JSON copy
// in redis so every activity does not re-read the table. A nil redis client
// degrades to direct repository reads.
type CatalogCache struct {
	rdb  *redis.Client
	repo repository.AchievementRepository
	ttl  time.Duration
}

func NewCatalogCache(rdb *redis.Client, repo repository.AchievementRepository, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		rdb:  rdb,
		repo: repo,
		ttl:  ttl,
	}
}

func (c *CatalogCache) All(ctx context.Context) ([]model.Achievement, error) {
	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, catalogCacheKey).Result(); err == nil {
			var definitions []model.Achievement
			if json.Unmarshal([]byte(raw), &definitions) == nil {
				return definitions, nil
			}
		}
	}

	definitions, err := c.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if raw, err := json.Marshal(definitions); err == nil {
			if err := c.rdb.Set(ctx, catalogCacheKey, raw, c.ttl).Err(); err != nil {
				log.Printf("failed to cache achievement catalog: %v", err)
			}
		}
	}

	return definitions, nil
}

// Invalidate drops the cached copy, used after the catalog is reseeded.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		log.Printf("failed to invalidate achievement catalog cache: %v", err)
	}
}
