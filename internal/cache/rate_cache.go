package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"importhub/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateCache stores the active bands of one rate-table group. Misses and cache
// failures both report ok=false; the caller falls back to the database.
type RateCache interface {
	GetFreightBands(ctx context.Context, regionID, serviceType string) ([]model.FreightRate, bool)
	SetFreightBands(ctx context.Context, regionID, serviceType string, bands []model.FreightRate)
	InvalidateFreight(ctx context.Context, regionID, serviceType string)

	GetCommissionBands(ctx context.Context, categoryID, channelType, serviceType string) ([]model.CommissionRate, bool)
	SetCommissionBands(ctx context.Context, categoryID, channelType, serviceType string, bands []model.CommissionRate)
	InvalidateCommission(ctx context.Context, categoryID, channelType, serviceType string)
}

type redisRateCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisRateCache returns a RateCache backed by Redis with the given entry TTL.
func NewRedisRateCache(client *redis.Client, ttl time.Duration, log *zap.Logger) RateCache {
	return &redisRateCache{client: client, ttl: ttl, log: log.Named("cache.rates")}
}

func freightKey(regionID, serviceType string) string {
	return cacheKey("rates", "freight", regionID, serviceType)
}

func commissionKey(categoryID, channelType, serviceType string) string {
	return cacheKey("rates", "commission", categoryID, channelType, serviceType)
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

func (c *redisRateCache) GetFreightBands(ctx context.Context, regionID, serviceType string) ([]model.FreightRate, bool) {
	var bands []model.FreightRate
	ok := c.get(ctx, freightKey(regionID, serviceType), &bands)
	return bands, ok
}

func (c *redisRateCache) SetFreightBands(ctx context.Context, regionID, serviceType string, bands []model.FreightRate) {
	c.set(ctx, freightKey(regionID, serviceType), bands)
}

func (c *redisRateCache) InvalidateFreight(ctx context.Context, regionID, serviceType string) {
	c.del(ctx, freightKey(regionID, serviceType))
}

func (c *redisRateCache) GetCommissionBands(ctx context.Context, categoryID, channelType, serviceType string) ([]model.CommissionRate, bool) {
	var bands []model.CommissionRate
	ok := c.get(ctx, commissionKey(categoryID, channelType, serviceType), &bands)
	return bands, ok
}

func (c *redisRateCache) SetCommissionBands(ctx context.Context, categoryID, channelType, serviceType string, bands []model.CommissionRate) {
	c.set(ctx, commissionKey(categoryID, channelType, serviceType), bands)
}

func (c *redisRateCache) InvalidateCommission(ctx context.Context, categoryID, channelType, serviceType string) {
	c.del(ctx, commissionKey(categoryID, channelType, serviceType))
}

func (c *redisRateCache) get(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("rate cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("rate cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *redisRateCache) set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("rate cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisRateCache) del(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("rate cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

type nopRateCache struct{}

// NewNopRateCache returns a RateCache that never stores anything.
func NewNopRateCache() RateCache {
	return nopRateCache{}
}

func (nopRateCache) GetFreightBands(context.Context, string, string) ([]model.FreightRate, bool) {
	return nil, false
}
func (nopRateCache) SetFreightBands(context.Context, string, string, []model.FreightRate) {}
func (nopRateCache) InvalidateFreight(context.Context, string, string)                    {}
func (nopRateCache) GetCommissionBands(context.Context, string, string, string) ([]model.CommissionRate, bool) {
	return nil, false
}
func (nopRateCache) SetCommissionBands(context.Context, string, string, string, []model.CommissionRate) {
}
func (nopRateCache) InvalidateCommission(context.Context, string, string, string) {}
