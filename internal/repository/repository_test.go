package repository

import (
	"context"
	"errors"
	"testing"

	"importhub/internal/database"
	"importhub/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestProductRepository_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(setupTestDB(t))

	owner, other := uuid.New(), uuid.New()
	p := &model.Product{UserID: owner, SKU: "SKU-1", Name: "Garrafa Térmica", BaseCost: decimal.NewFromInt(10)}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEqual(t, uuid.Nil, p.ID)

	found, err := repo.FindByID(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", found.SKU)
	assert.True(t, decimal.NewFromInt(10).Equal(found.BaseCost))

	_, err = repo.FindByID(ctx, other, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	list, total, err := repo.List(ctx, owner, 1, 20, "garrafa")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, owner, p.ID))
	_, err = repo.FindByID(ctx, owner, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestChannelRepository_ListActive(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewChannelRepository(db)
	user := uuid.New()

	require.NoError(t, repo.Create(ctx, &model.Channel{UserID: user, Name: "Shopee", Code: "shopee", ChannelType: "shopee", ServiceType: model.ServiceTypeStandard, Active: true}))
	require.NoError(t, repo.Create(ctx, &model.Channel{UserID: user, Name: "Amazon FBA", Code: "amazon-fba", ChannelType: "amazon", ServiceType: model.ServiceTypeFBA, Active: true}))
	inactive := &model.Channel{UserID: user, Name: "Loja", Code: "loja", ChannelType: "own_site", ServiceType: model.ServiceTypeStandard, Active: true}
	require.NoError(t, repo.Create(ctx, inactive))
	require.NoError(t, db.Model(inactive).Update("active", false).Error)

	active, err := repo.ListActive(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Amazon FBA", active[0].Name)
	assert.Equal(t, "Shopee", active[1].Name)

	all, err := repo.List(ctx, user)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSettingsRepository_MissingIsNil(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(setupTestDB(t))
	user := uuid.New()

	settings, err := repo.Get(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, settings)

	region := "SP"
	require.NoError(t, repo.Save(ctx, &model.UserSettings{UserID: user, RegionID: &region, TaxPercentage: decimal.NewFromInt(5)}))
	require.NoError(t, repo.Save(ctx, &model.UserSettings{UserID: user, RegionID: &region, TaxPercentage: decimal.NewFromInt(7)}))

	settings, err = repo.Get(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "SP", *settings.RegionID)
	assert.True(t, decimal.NewFromInt(7).Equal(settings.TaxPercentage))
}

func TestFreightRateRepository_ListActiveByGroup(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewFreightRateRepository(db)
	to := decimal.NewFromInt(20)

	require.NoError(t, repo.Create(ctx, &model.FreightRate{RegionID: "SP", ServiceType: "FBA", WeightFrom: decimal.NewFromInt(20), Price: decimal.NewFromInt(15), Active: true}))
	require.NoError(t, repo.Create(ctx, &model.FreightRate{RegionID: "SP", ServiceType: "FBA", WeightFrom: decimal.NewFromInt(10), WeightTo: &to, Price: decimal.NewFromInt(8), Active: true}))
	require.NoError(t, repo.Create(ctx, &model.FreightRate{RegionID: "RJ", ServiceType: "FBA", WeightFrom: decimal.Zero, Price: decimal.NewFromInt(3), Active: true}))
	retired := &model.FreightRate{RegionID: "SP", ServiceType: "FBA", WeightFrom: decimal.Zero, WeightTo: &to, Price: decimal.NewFromInt(1), Active: true}
	require.NoError(t, repo.Create(ctx, retired))
	require.NoError(t, db.Model(retired).Update("active", false).Error)

	bands, err := repo.ListActiveByGroup(ctx, "SP", "FBA")
	require.NoError(t, err)
	require.Len(t, bands, 2)
	assert.True(t, decimal.NewFromInt(10).Equal(bands[0].WeightFrom))
	require.NotNil(t, bands[0].WeightTo)
	assert.True(t, to.Equal(*bands[0].WeightTo))
	assert.Nil(t, bands[1].WeightTo)

	all, err := repo.List(ctx, FreightRateFilter{RegionID: "SP"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	tm := NewTransactionManager(db)
	repo := NewAuditRepository(db)

	boom := errors.New("boom")
	err := tm.RunInTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.Log(txCtx, &model.AuditLog{Action: model.ActionCreateProduct}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, total, err := repo.List(ctx, AuditFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
