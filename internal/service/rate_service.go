package service

import (
	"context"
	"fmt"

	"importhub/internal/cache"
	"importhub/internal/metrics"
	"importhub/internal/model"
	"importhub/internal/pricing"
	"importhub/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateService resolves tiered freight and commission rates from the rate tables.
type RateService interface {
	pricing.RateResolver
}

type rateService struct {
	freightRepo    repository.FreightRateRepository
	commissionRepo repository.CommissionRateRepository
	cache          cache.RateCache
	log            *zap.Logger
}

func NewRateService(
	freightRepo repository.FreightRateRepository,
	commissionRepo repository.CommissionRateRepository,
	rateCache cache.RateCache,
	log *zap.Logger,
) RateService {
	if rateCache == nil {
		rateCache = cache.NewNopRateCache()
	}
	return &rateService{
		freightRepo:    freightRepo,
		commissionRepo: commissionRepo,
		cache:          rateCache,
		log:            log.Named("rate.service"),
	}
}

// ResolveFreightRate returns the price of the [from, to) weight band containing
// weight. A missing band is Unmatched, not an error.
func (s *rateService) ResolveFreightRate(ctx context.Context, regionID, serviceType string, weight decimal.Decimal) (pricing.Match, error) {
	if weight.IsNegative() {
		return pricing.Unmatched, &pricing.ValidationError{Field: "weight", Message: "must not be negative"}
	}

	rows, ok := s.cache.GetFreightBands(ctx, regionID, serviceType)
	if ok {
		metrics.RateCacheHits.WithLabelValues("freight").Inc()
	} else {
		var err error
		rows, err = s.freightRepo.ListActiveByGroup(ctx, regionID, serviceType)
		if err != nil {
			return pricing.Unmatched, fmt.Errorf("failed to load freight bands: %w", err)
		}
		s.cache.SetFreightBands(ctx, regionID, serviceType, rows)
	}

	band, found := pricing.Lookup(freightBands(rows), weight, pricing.UpperExclusive)
	if !found {
		metrics.RateLookupUnmatched.WithLabelValues("freight").Inc()
		s.log.Debug("no freight band matched",
			zap.String("region_id", regionID), zap.String("service_type", serviceType), zap.String("weight", weight.String()))
		return pricing.Unmatched, nil
	}
	return pricing.Matched(band.Value.Price), nil
}

// ResolveCommissionRate returns commissionPercentage/100 × multiplier for the
// [from, to] price band containing salePrice.
func (s *rateService) ResolveCommissionRate(ctx context.Context, categoryID, channelType, serviceType string, salePrice decimal.Decimal) (pricing.Match, error) {
	if salePrice.IsNegative() {
		return pricing.Unmatched, &pricing.ValidationError{Field: "sale_price", Message: "must not be negative"}
	}
	channelType = model.NormalizeChannelType(channelType)

	rows, ok := s.cache.GetCommissionBands(ctx, categoryID, channelType, serviceType)
	if ok {
		metrics.RateCacheHits.WithLabelValues("commission").Inc()
	} else {
		var err error
		rows, err = s.commissionRepo.ListActiveByGroup(ctx, categoryID, channelType, serviceType)
		if err != nil {
			return pricing.Unmatched, fmt.Errorf("failed to load commission bands: %w", err)
		}
		s.cache.SetCommissionBands(ctx, categoryID, channelType, serviceType, rows)
	}

	band, found := pricing.Lookup(commissionBands(rows), salePrice, pricing.UpperInclusive)
	if !found {
		metrics.RateLookupUnmatched.WithLabelValues("commission").Inc()
		s.log.Debug("no commission band matched",
			zap.String("category_id", categoryID), zap.String("channel_type", channelType),
			zap.String("service_type", serviceType), zap.String("sale_price", salePrice.String()))
		return pricing.Unmatched, nil
	}
	return pricing.Matched(commissionFraction(band.Value)), nil
}

func commissionFraction(r model.CommissionRate) decimal.Decimal {
	rate := r.CommissionPercentage.Div(decimal.NewFromInt(100))
	if r.NoInterestMultiplier != nil && !r.NoInterestMultiplier.IsZero() {
		rate = rate.Mul(*r.NoInterestMultiplier)
	}
	return rate
}

func freightBands(rows []model.FreightRate) []pricing.Band[model.FreightRate] {
	bands := make([]pricing.Band[model.FreightRate], 0, len(rows))
	for _, r := range rows {
		bands = append(bands, pricing.Band[model.FreightRate]{From: r.WeightFrom, To: r.WeightTo, Value: r})
	}
	return bands
}

func commissionBands(rows []model.CommissionRate) []pricing.Band[model.CommissionRate] {
	bands := make([]pricing.Band[model.CommissionRate], 0, len(rows))
	for _, r := range rows {
		bands = append(bands, pricing.Band[model.CommissionRate]{From: r.PriceFrom, To: r.PriceTo, Value: r})
	}
	return bands
}
