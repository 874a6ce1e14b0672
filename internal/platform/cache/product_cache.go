package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

// ProductCache is a read-through cache for catalog reads. It is strictly an
// optimization for browse traffic: the order workflow never reads products
// through it, because ledger decisions must see the latest persisted state.
// A nil *ProductCache is valid and disables caching entirely.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewProductCache(addr, password string, ttl time.Duration, baseLog *logger.Logger) *ProductCache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &ProductCache{rdb: rdb, ttl: ttl, log: baseLog.With("service", "ProductCache")}
}

func key(productID uuid.UUID) string {
	return "product:" + productID.String()
}

func (c *ProductCache) Get(ctx context.Context, productID uuid.UUID) (*domain.Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", "product_id", productID.String(), "error", err)
		}
		return nil, false
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn("cache entry corrupt, dropping", "product_id", productID.String(), "error", err)
		_ = c.rdb.Del(ctx, key(productID)).Err()
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *domain.Product) {
	if c == nil || p == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(p.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "product_id", p.ID.String(), "error", err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, productID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(productID)).Err(); err != nil {
		c.log.Warn("cache invalidate failed", "product_id", productID.String(), "error", err)
	}
}
