package service

import (
	"context"
	"sync"
	"testing"

	"importhub/internal/cache"
	"importhub/internal/config"
	"importhub/internal/database"
	"importhub/internal/model"
	"importhub/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv wires every service over one in-memory database.
type testEnv struct {
	db          *gorm.DB
	products    repository.ProductRepository
	channels    repository.ChannelRepository
	settings    repository.SettingsRepository
	logs        repository.CalculationLogRepository
	audit       repository.AuditRepository
	freight     repository.FreightRateRepository
	commissions repository.CommissionRateRepository
	events      *recordingPublisher
	cache       *recordingCache

	rates     RateService
	rateTable RateTableService
	catalog   CatalogService
	settingsS SettingsService
	pricing   PricingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	log := zap.NewNop()
	env := &testEnv{
		db:          db,
		products:    repository.NewProductRepository(db),
		channels:    repository.NewChannelRepository(db),
		settings:    repository.NewSettingsRepository(db),
		logs:        repository.NewCalculationLogRepository(db),
		audit:       repository.NewAuditRepository(db),
		freight:     repository.NewFreightRateRepository(db),
		commissions: repository.NewCommissionRateRepository(db),
		events:      &recordingPublisher{},
		cache:       &recordingCache{RateCache: cache.NewNopRateCache()},
	}
	tx := repository.NewTransactionManager(db)

	env.rates = NewRateService(env.freight, env.commissions, env.cache, log)
	env.rateTable = NewRateTableService(env.freight, env.commissions, env.audit, tx, env.cache, log)
	env.rateTable.(*rateTableService).reinvalidateAfter = 0
	env.catalog = NewCatalogService(env.products, env.channels, env.audit, tx, log)
	env.settingsS = NewSettingsService(env.settings, env.audit, log)
	env.pricing = NewPricingService(env.products, env.channels, env.settings, env.logs, env.rates,
		config.NewStaticPricingConfig(config.DefaultPricingConfig()), env.events, log)
	return env
}

type recordingPublisher struct {
	mu         sync.Mutex
	events     []string
	recipients []uuid.UUID
}

func (p *recordingPublisher) Publish(userID uuid.UUID, event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.recipients = append(p.recipients, userID)
}

type recordingCache struct {
	cache.RateCache
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) InvalidateFreight(_ context.Context, regionID, serviceType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, "freight:"+regionID+":"+serviceType)
}

func (c *recordingCache) InvalidateCommission(_ context.Context, categoryID, channelType, serviceType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, "commission:"+categoryID+":"+channelType+":"+serviceType)
}

func (c *recordingCache) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, k := range c.invalidated {
		if k == key {
			n++
		}
	}
	return n
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// seedPricingFixture stores the product, channel, settings and commission band shared by
// the calculation tests: base 10, packaging 2, 15% commission on amazon FBA for
// prices 0..100 and 5% tax.
func seedPricingFixture(t *testing.T, env *testEnv, userID uuid.UUID) (*model.Product, *model.Channel) {
	t.Helper()
	ctx := context.Background()

	product := &model.Product{
		UserID:        userID,
		SKU:           "SKU-A",
		Name:          "Fone Bluetooth",
		CategoryID:    "1",
		BaseCost:      d("10"),
		PackagingCost: d("2"),
		WeightKg:      d("1"),
	}
	require.NoError(t, env.products.Create(ctx, product))

	channel := &model.Channel{UserID: userID, Name: "Amazon FBA", Code: "amazon-fba", ChannelType: "amazon", ServiceType: model.ServiceTypeFBA, Active: true}
	require.NoError(t, env.channels.Create(ctx, channel))

	require.NoError(t, env.settings.Save(ctx, &model.UserSettings{UserID: userID, TaxPercentage: d("5")}))

	require.NoError(t, env.commissions.Create(ctx, &model.CommissionRate{
		CategoryID:           "1",
		ChannelType:          "amazon",
		ServiceType:          model.ServiceTypeFBA,
		PriceFrom:            d("0"),
		PriceTo:              dp("100"),
		CommissionPercentage: d("15"),
		Active:               true,
	}))
	return product, channel
}
