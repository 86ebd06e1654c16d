package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"importhub/internal/model"
	"importhub/internal/pricing"
	"importhub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freightReq(from string, to *string, price string) FreightRateRequest {
	req := FreightRateRequest{RegionID: "SP", ServiceType: "FBA", WeightFrom: d(from), Price: d(price)}
	if to != nil {
		req.WeightTo = dp(*to)
	}
	return req
}

func strp(s string) *string { return &s }

func TestRateTableService_FreightOverlap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := uuid.New()

	first, err := env.rateTable.CreateFreightRate(ctx, admin, freightReq("0", strp("10"), "5"))
	require.NoError(t, err)
	assert.True(t, first.Active)

	// touching bands are allowed
	_, err = env.rateTable.CreateFreightRate(ctx, admin, freightReq("10", strp("20"), "8"))
	require.NoError(t, err)

	_, err = env.rateTable.CreateFreightRate(ctx, admin, freightReq("5", strp("15"), "7"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pricing.ErrBandOverlap))
	assert.True(t, pricing.IsValidation(err))

	_, err = env.rateTable.CreateFreightRate(ctx, admin, freightReq("15", nil, "9"))
	assert.True(t, errors.Is(err, pricing.ErrBandOverlap))

	inactive := freightReq("5", strp("15"), "7")
	inactive.Active = new(bool)
	_, err = env.rateTable.CreateFreightRate(ctx, admin, inactive)
	require.NoError(t, err)

	// updating a band in place does not overlap with itself
	updated, err := env.rateTable.UpdateFreightRate(ctx, admin, first.ID, freightReq("0", strp("10"), "6"))
	require.NoError(t, err)
	assertDecimal(t, "6", updated.Price)

	rates, err := env.rateTable.ListFreightRates(ctx, repository.FreightRateFilter{RegionID: "SP"})
	require.NoError(t, err)
	assert.Len(t, rates, 3)

	_, total, err := env.audit.List(ctx, repository.AuditFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	_, total, err = env.audit.List(ctx, repository.AuditFilter{Action: model.ActionUpdateFreightRate, Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Contains(t, env.cache.invalidated, "freight:SP:FBA")
}

func TestRateTableService_FreightValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.rateTable.CreateFreightRate(ctx, uuid.Nil, freightReq("10", strp("5"), "1"))
	assert.True(t, errors.Is(err, pricing.ErrInvalidBand))

	_, err = env.rateTable.CreateFreightRate(ctx, uuid.Nil, freightReq("0", nil, "-1"))
	assert.True(t, pricing.IsValidation(err))

	req := freightReq("0", nil, "1")
	req.ServiceType = "DROPSHIP"
	_, err = env.rateTable.CreateFreightRate(ctx, uuid.Nil, req)
	assert.True(t, pricing.IsValidation(err))

	_, err = env.rateTable.UpdateFreightRate(ctx, uuid.Nil, uuid.New(), freightReq("0", nil, "1"))
	assert.True(t, pricing.IsNotFound(err))

	err = env.rateTable.DeleteFreightRate(ctx, uuid.Nil, uuid.New())
	assert.True(t, pricing.IsNotFound(err))
}

func TestRateTableService_CommissionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := uuid.New()

	req := CommissionRateRequest{CategoryID: "1", ChannelType: "amazon", ServiceType: "FBA", PriceFrom: d("0"), PriceTo: dp("100"), CommissionPercentage: d("15")}
	created, err := env.rateTable.CreateCommissionRate(ctx, admin, req)
	require.NoError(t, err)

	m, err := env.rates.ResolveCommissionRate(ctx, "1", "amazon", "FBA", d("50"))
	require.NoError(t, err)
	assertDecimal(t, "0.15", m.Value)

	overlapping := req
	overlapping.PriceFrom, overlapping.PriceTo = d("100"), nil
	_, err = env.rateTable.CreateCommissionRate(ctx, admin, overlapping)
	require.NoError(t, err, "bands that only touch at 100 do not overlap")

	bad := req
	bad.NoInterestMultiplier = dp("0")
	_, err = env.rateTable.CreateCommissionRate(ctx, admin, bad)
	assert.True(t, pricing.IsValidation(err))

	bad = req
	bad.CommissionPercentage = d("101")
	_, err = env.rateTable.CreateCommissionRate(ctx, admin, bad)
	assert.True(t, pricing.IsValidation(err))

	moved := req
	moved.ChannelType = "shopee"
	_, err = env.rateTable.UpdateCommissionRate(ctx, admin, created.ID, moved)
	require.NoError(t, err)
	assert.Contains(t, env.cache.invalidated, "commission:1:amazon:FBA")
	assert.Contains(t, env.cache.invalidated, "commission:1:shopee:FBA")

	require.NoError(t, env.rateTable.DeleteCommissionRate(ctx, admin, created.ID))
	m, err = env.rates.ResolveCommissionRate(ctx, "1", "shopee", "FBA", d("50"))
	require.NoError(t, err)
	assert.False(t, m.Matched)
}

func TestRateTableService_EvictsGroupAgainAfterCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.rateTable.(*rateTableService).reinvalidateAfter = 20 * time.Millisecond

	_, err := env.rateTable.CreateFreightRate(ctx, uuid.New(), freightReq("0", strp("10"), "5"))
	require.NoError(t, err)

	assert.Equal(t, 1, env.cache.count("freight:SP:FBA"), "first eviction happens on commit")
	assert.Eventually(t, func() bool { return env.cache.count("freight:SP:FBA") == 2 }, time.Second, 5*time.Millisecond)
}

func TestRateTableService_ChannelTypeStoredLowercase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.rateTable.CreateCommissionRate(ctx, uuid.New(), CommissionRateRequest{
		CategoryID: "1", ChannelType: " Amazon ", ServiceType: "FBA", PriceFrom: d("0"), CommissionPercentage: d("12"),
	})
	require.NoError(t, err)
	assert.Equal(t, "amazon", created.ChannelType)
	assert.Contains(t, env.cache.invalidated, "commission:1:amazon:FBA")

	rates, err := env.rateTable.ListCommissionRates(ctx, repository.CommissionRateFilter{ChannelType: "AMAZON"})
	require.NoError(t, err)
	assert.Len(t, rates, 1)
}
