package service

import (
	"context"
	"testing"

	"importhub/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Channels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	ch, err := env.catalog.CreateChannel(ctx, userID, ChannelRequest{Name: "Mercado Livre Full", ChannelType: "mercadolivre", ServiceType: "FBA"})
	require.NoError(t, err)
	assert.Equal(t, "mercado-livre-full", ch.Code)
	assert.True(t, ch.Active)

	mixed, err := env.catalog.CreateChannel(ctx, userID, ChannelRequest{Name: "Amazon", ChannelType: "Amazon", ServiceType: "FBA"})
	require.NoError(t, err)
	assert.Equal(t, "amazon", mixed.ChannelType)

	inactive := false
	ch, err = env.catalog.UpdateChannel(ctx, userID, ch.ID, ChannelRequest{Name: "Mercado Livre Flex", ChannelType: "mercadolivre", ServiceType: "FBM", Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "mercado-livre-flex", ch.Code)
	assert.False(t, ch.Active)

	active, err := env.channels.ListActive(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = env.catalog.GetChannel(ctx, uuid.New(), ch.ID)
	assert.Equal(t, "Canal não encontrado", err.Error())

	require.NoError(t, env.catalog.DeleteChannel(ctx, userID, ch.ID))
	_, err = env.catalog.GetChannel(ctx, userID, ch.ID)
	assert.True(t, pricing.IsNotFound(err))
}

func TestCatalogService_Products(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	p, err := env.catalog.CreateProduct(ctx, userID, ProductRequest{SKU: "SKU-1", Name: "Caneca", CategoryID: "3", BaseCost: d("8.5"), WeightKg: d("0.4")})
	require.NoError(t, err)

	list, total, err := env.catalog.ListProducts(ctx, userID, 0, 0, "cane")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assertDecimal(t, "8.5", list[0].BaseCost)

	_, err = env.catalog.CreateProduct(ctx, userID, ProductRequest{SKU: "SKU-2", Name: "Prato", BaseCost: d("-1")})
	assert.True(t, pricing.IsValidation(err))

	_, err = env.catalog.UpdateProduct(ctx, uuid.New(), p.ID, ProductRequest{SKU: "SKU-1", Name: "Caneca"})
	assert.Equal(t, "Produto não encontrado", err.Error())

	require.NoError(t, env.catalog.DeleteProduct(ctx, userID, p.ID))
	_, total, err = env.catalog.ListProducts(ctx, userID, 1, 20, "")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSettingsService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	s, err := env.settingsS.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, s.RegionID)
	assert.True(t, s.TaxPercentage.IsZero())

	_, err = env.settingsS.Update(ctx, userID, SettingsRequest{TaxPercentage: d("101")})
	assert.True(t, pricing.IsValidation(err))

	region := "RJ"
	_, err = env.settingsS.Update(ctx, userID, SettingsRequest{RegionID: &region, TaxPercentage: d("6.5")})
	require.NoError(t, err)

	s, err = env.settingsS.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, s.RegionID)
	assert.Equal(t, "RJ", *s.RegionID)
	assertDecimal(t, "6.5", s.TaxPercentage)

	empty := ""
	s, err = env.settingsS.Update(ctx, userID, SettingsRequest{RegionID: &empty, TaxPercentage: d("6.5")})
	require.NoError(t, err)
	assert.Nil(t, s.RegionID)
}
