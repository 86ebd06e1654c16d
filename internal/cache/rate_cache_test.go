package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"importhub/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "rates:freight:SP:FBA", freightKey("SP", "FBA"))
	assert.Equal(t, "rates:commission:1:amazon:FBM", commissionKey("1", "amazon", "FBM"))
}

func TestNopRateCacheAlwaysMisses(t *testing.T) {
	c := NewNopRateCache()
	ctx := context.Background()

	c.SetFreightBands(ctx, "SP", "FBA", nil)
	_, ok := c.GetFreightBands(ctx, "SP", "FBA")
	assert.False(t, ok)

	c.SetCommissionBands(ctx, "1", "amazon", "FBA", nil)
	_, ok = c.GetCommissionBands(ctx, "1", "amazon", "FBA")
	assert.False(t, ok)
}

func newRedisCache(t *testing.T) (*miniredis.Miniredis, *redis.Client, RateCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client, NewRedisRateCache(client, time.Minute, zap.NewNop())
}

func decPtr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestRedisRateCache_FreightBands(t *testing.T) {
	mr, client, c := newRedisCache(t)
	ctx := context.Background()

	_, ok := c.GetFreightBands(ctx, "SP", "FBA")
	assert.False(t, ok, "empty cache misses")

	bands := []model.FreightRate{
		{ID: uuid.New(), RegionID: "SP", ServiceType: "FBA", WeightFrom: decimal.Zero, WeightTo: decPtr("10"), Price: decimal.RequireFromString("5.5"), Active: true},
		{ID: uuid.New(), RegionID: "SP", ServiceType: "FBA", WeightFrom: decimal.NewFromInt(10), Price: decimal.NewFromInt(8), Active: true},
	}
	c.SetFreightBands(ctx, "SP", "FBA", bands)
	assert.Equal(t, time.Minute, mr.TTL(freightKey("SP", "FBA")))

	got, ok := c.GetFreightBands(ctx, "SP", "FBA")
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, bands[0].ID, got[0].ID)
	assert.True(t, got[0].Price.Equal(bands[0].Price))
	require.NotNil(t, got[0].WeightTo)
	assert.True(t, got[0].WeightTo.Equal(*bands[0].WeightTo))
	assert.Nil(t, got[1].WeightTo, "open-ended band stays open-ended")
	assert.True(t, got[1].WeightFrom.Equal(bands[1].WeightFrom))

	_, ok = c.GetFreightBands(ctx, "SP", "FBM")
	assert.False(t, ok, "other groups are separate keys")

	c.InvalidateFreight(ctx, "SP", "FBA")
	err := client.Get(ctx, freightKey("SP", "FBA")).Err()
	assert.True(t, errors.Is(err, redis.Nil))
	_, ok = c.GetFreightBands(ctx, "SP", "FBA")
	assert.False(t, ok)
}

func TestRedisRateCache_CommissionBands(t *testing.T) {
	_, _, c := newRedisCache(t)
	ctx := context.Background()

	bands := []model.CommissionRate{{
		ID: uuid.New(), CategoryID: "1", ChannelType: "amazon", ServiceType: "FBA",
		PriceFrom: decimal.Zero, PriceTo: decPtr("100"),
		CommissionPercentage: decimal.NewFromInt(15), NoInterestMultiplier: decPtr("1.5"), Active: true,
	}}
	c.SetCommissionBands(ctx, "1", "amazon", "FBA", bands)

	got, ok := c.GetCommissionBands(ctx, "1", "amazon", "FBA")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, got[0].CommissionPercentage.Equal(decimal.NewFromInt(15)))
	require.NotNil(t, got[0].NoInterestMultiplier)
	assert.True(t, got[0].NoInterestMultiplier.Equal(decimal.RequireFromString("1.5")))

	c.InvalidateCommission(ctx, "1", "amazon", "FBA")
	_, ok = c.GetCommissionBands(ctx, "1", "amazon", "FBA")
	assert.False(t, ok)
}

func TestRedisRateCache_EmptyGroupIsCached(t *testing.T) {
	_, _, c := newRedisCache(t)
	ctx := context.Background()

	c.SetFreightBands(ctx, "RJ", "FBA", nil)
	got, ok := c.GetFreightBands(ctx, "RJ", "FBA")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisRateCache_ExpiryAndBadEntries(t *testing.T) {
	mr, _, c := newRedisCache(t)
	ctx := context.Background()

	c.SetFreightBands(ctx, "SP", "FBA", []model.FreightRate{{RegionID: "SP", ServiceType: "FBA", Price: decimal.NewFromInt(1)}})
	mr.FastForward(2 * time.Minute)
	_, ok := c.GetFreightBands(ctx, "SP", "FBA")
	assert.False(t, ok, "expired entries miss")

	require.NoError(t, mr.Set(freightKey("SP", "FBA"), "not json"))
	_, ok = c.GetFreightBands(ctx, "SP", "FBA")
	assert.False(t, ok, "corrupt entries miss")
}

func TestRedisRateCache_ServerDownMisses(t *testing.T) {
	mr, _, c := newRedisCache(t)
	ctx := context.Background()
	mr.Close()

	c.SetCommissionBands(ctx, "1", "amazon", "FBA", []model.CommissionRate{{CategoryID: "1"}})
	_, ok := c.GetCommissionBands(ctx, "1", "amazon", "FBA")
	assert.False(t, ok)
	c.InvalidateCommission(ctx, "1", "amazon", "FBA")
}
