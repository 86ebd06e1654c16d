package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PricingConfig tunes the calculator and the channel comparison. It is read from
// pricing.yml and reloaded when the file changes.
type PricingConfig struct {
	NoInterestSurcharge decimal.Decimal
	MarginalThreshold   decimal.Decimal
	HealthyThreshold    decimal.Decimal
	VolumetricDivisor   decimal.Decimal
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		NoInterestSurcharge: decimal.RequireFromString("1.01"),
		MarginalThreshold:   decimal.NewFromInt(10),
		HealthyThreshold:    decimal.NewFromInt(20),
		VolumetricDivisor:   decimal.NewFromInt(6000),
	}
}

// PricingConfigHolder serves the current PricingConfig.
type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

// NewStaticPricingConfig returns a holder that never reloads.
func NewStaticPricingConfig(cfg PricingConfig) *PricingConfigHolder {
	h := &PricingConfigHolder{}
	h.current.Store(cfg)
	return h
}

// NewPricingConfigHolder reads pricing.yml from the first path that has one,
// falling back to defaults, and watches the file for changes. Values may also be
// set through IMPORTHUB_PRICING_* environment variables.
func NewPricingConfigHolder(log *zap.Logger, paths ...string) (*PricingConfigHolder, error) {
	v := viper.New()
	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("IMPORTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPricingConfig()
	v.SetDefault("pricing.no_interest_surcharge", defaults.NoInterestSurcharge.String())
	v.SetDefault("pricing.health.marginal", defaults.MarginalThreshold.String())
	v.SetDefault("pricing.health.healthy", defaults.HealthyThreshold.String())
	v.SetDefault("pricing.volumetric_divisor", defaults.VolumetricDivisor.String())

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	cfg, err := decodePricingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticPricingConfig(cfg)
	if !fileFound {
		log.Info("pricing config file not found, using defaults")
		return holder, nil
	}

	log.Info("pricing config loaded", zap.String("file", v.ConfigFileUsed()))
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodePricingConfig(v)
		if err != nil {
			log.Warn("pricing config reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("pricing config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func decodePricingConfig(v *viper.Viper) (PricingConfig, error) {
	var cfg PricingConfig
	var err error
	if cfg.NoInterestSurcharge, err = decimal.NewFromString(v.GetString("pricing.no_interest_surcharge")); err != nil {
		return cfg, errors.New("pricing.no_interest_surcharge must be a number")
	}
	if cfg.MarginalThreshold, err = decimal.NewFromString(v.GetString("pricing.health.marginal")); err != nil {
		return cfg, errors.New("pricing.health.marginal must be a number")
	}
	if cfg.HealthyThreshold, err = decimal.NewFromString(v.GetString("pricing.health.healthy")); err != nil {
		return cfg, errors.New("pricing.health.healthy must be a number")
	}
	if cfg.VolumetricDivisor, err = decimal.NewFromString(v.GetString("pricing.volumetric_divisor")); err != nil {
		return cfg, errors.New("pricing.volumetric_divisor must be a number")
	}
	return cfg, validatePricingConfig(cfg)
}

func validatePricingConfig(cfg PricingConfig) error {
	if !cfg.NoInterestSurcharge.IsPositive() {
		return errors.New("pricing.no_interest_surcharge must be greater than 0")
	}
	if cfg.HealthyThreshold.LessThan(cfg.MarginalThreshold) {
		return errors.New("pricing.health.healthy cannot be below pricing.health.marginal")
	}
	if cfg.VolumetricDivisor.IsNegative() {
		return errors.New("pricing.volumetric_divisor cannot be negative")
	}
	return nil
}
