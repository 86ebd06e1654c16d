package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"importhub/internal/cache"
	"importhub/internal/model"
	"importhub/internal/pricing"
	"importhub/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

type FreightRateRequest struct {
	RegionID    string           `json:"region_id" binding:"required"`
	ServiceType string           `json:"service_type" binding:"required,oneof=FBA FBM STANDARD"`
	WeightFrom  decimal.Decimal  `json:"weight_from"`
	WeightTo    *decimal.Decimal `json:"weight_to"`
	Price       decimal.Decimal  `json:"price"`
	Active      *bool            `json:"active"` // defaults to true
}

type CommissionRateRequest struct {
	CategoryID           string           `json:"category_id" binding:"required"`
	ChannelType          string           `json:"channel_type" binding:"required"`
	ServiceType          string           `json:"service_type" binding:"required,oneof=FBA FBM STANDARD"`
	PriceFrom            decimal.Decimal  `json:"price_from"`
	PriceTo              *decimal.Decimal `json:"price_to"`
	CommissionPercentage decimal.Decimal  `json:"commission_percentage"`
	NoInterestMultiplier *decimal.Decimal `json:"no_interest_multiplier"`
	Active               *bool            `json:"active"`
}

// --- Interface ---

// RateTableService administers the freight and commission tables. Active bands of
// one group never overlap.
type RateTableService interface {
	ListFreightRates(ctx context.Context, filter repository.FreightRateFilter) ([]model.FreightRate, error)
	CreateFreightRate(ctx context.Context, actorID uuid.UUID, req FreightRateRequest) (*model.FreightRate, error)
	UpdateFreightRate(ctx context.Context, actorID, id uuid.UUID, req FreightRateRequest) (*model.FreightRate, error)
	DeleteFreightRate(ctx context.Context, actorID, id uuid.UUID) error

	ListCommissionRates(ctx context.Context, filter repository.CommissionRateFilter) ([]model.CommissionRate, error)
	CreateCommissionRate(ctx context.Context, actorID uuid.UUID, req CommissionRateRequest) (*model.CommissionRate, error)
	UpdateCommissionRate(ctx context.Context, actorID, id uuid.UUID, req CommissionRateRequest) (*model.CommissionRate, error)
	DeleteCommissionRate(ctx context.Context, actorID, id uuid.UUID) error
}

// reinvalidateAfter is how long after a commit the touched cache groups are
// evicted a second time. A lookup that read the old rows before the commit may
// still write them to the cache after the first eviction.
const reinvalidateAfter = 500 * time.Millisecond

type rateTableService struct {
	freightRepo       repository.FreightRateRepository
	commissionRepo    repository.CommissionRateRepository
	auditRepo         repository.AuditRepository
	txManager         repository.TransactionManager
	cache             cache.RateCache
	reinvalidateAfter time.Duration
	log               *zap.Logger
}

func NewRateTableService(
	freightRepo repository.FreightRateRepository,
	commissionRepo repository.CommissionRateRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	rateCache cache.RateCache,
	log *zap.Logger,
) RateTableService {
	if rateCache == nil {
		rateCache = cache.NewNopRateCache()
	}
	return &rateTableService{
		freightRepo:       freightRepo,
		commissionRepo:    commissionRepo,
		auditRepo:         auditRepo,
		txManager:         txManager,
		cache:             rateCache,
		reinvalidateAfter: reinvalidateAfter,
		log:               log.Named("ratetable.service"),
	}
}

// --- Freight ---

func (s *rateTableService) ListFreightRates(ctx context.Context, filter repository.FreightRateFilter) ([]model.FreightRate, error) {
	rates, err := s.freightRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list freight rates: %w", err)
	}
	return rates, nil
}

func (s *rateTableService) CreateFreightRate(ctx context.Context, actorID uuid.UUID, req FreightRateRequest) (*model.FreightRate, error) {
	if err := validateFreightRequest(req); err != nil {
		return nil, err
	}

	rate := &model.FreightRate{}
	applyFreightRequest(rate, req)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkFreightOverlap(txCtx, rate); err != nil {
			return err
		}
		if err := s.freightRepo.Create(txCtx, rate); err != nil {
			return fmt.Errorf("failed to create freight rate: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, s.log, actorID, model.ActionCreateFreightRate, rate.ID.String(), freightLabel(rate), req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evictFreight(ctx, rate.RegionID, rate.ServiceType)
	return rate, nil
}

func (s *rateTableService) UpdateFreightRate(ctx context.Context, actorID, id uuid.UUID, req FreightRateRequest) (*model.FreightRate, error) {
	if err := validateFreightRequest(req); err != nil {
		return nil, err
	}

	var rate *model.FreightRate
	var oldRegion, oldService string
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.freightRepo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &pricing.NotFoundError{Entity: "freight_rate", Message: "Faixa de frete não encontrada"}
			}
			return fmt.Errorf("failed to fetch freight rate: %w", err)
		}
		oldRegion, oldService = existing.RegionID, existing.ServiceType

		applyFreightRequest(existing, req)
		if err := s.checkFreightOverlap(txCtx, existing); err != nil {
			return err
		}
		if err := s.freightRepo.Update(txCtx, existing); err != nil {
			return fmt.Errorf("failed to update freight rate: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, s.log, actorID, model.ActionUpdateFreightRate, existing.ID.String(), freightLabel(existing), req)
		rate = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evictFreight(ctx, oldRegion, oldService)
	s.evictFreight(ctx, rate.RegionID, rate.ServiceType)
	return rate, nil
}

func (s *rateTableService) DeleteFreightRate(ctx context.Context, actorID, id uuid.UUID) error {
	rate, err := s.freightRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &pricing.NotFoundError{Entity: "freight_rate", Message: "Faixa de frete não encontrada"}
		}
		return fmt.Errorf("failed to fetch freight rate: %w", err)
	}

	if err := s.freightRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete freight rate: %w", err)
	}
	writeAuditLog(ctx, s.auditRepo, s.log, actorID, model.ActionDeleteFreightRate, id.String(), freightLabel(rate), map[string]string{"deleted_id": id.String()})

	s.evictFreight(ctx, rate.RegionID, rate.ServiceType)
	return nil
}

func (s *rateTableService) checkFreightOverlap(ctx context.Context, rate *model.FreightRate) error {
	if !rate.Active {
		return nil
	}
	existing, err := s.freightRepo.ListActiveByGroup(ctx, rate.RegionID, rate.ServiceType)
	if err != nil {
		return fmt.Errorf("failed to check overlap: %w", err)
	}

	others := make([]model.FreightRate, 0, len(existing))
	for _, e := range existing {
		if e.ID != rate.ID {
			others = append(others, e)
		}
	}

	candidate := pricing.Band[model.FreightRate]{From: rate.WeightFrom, To: rate.WeightTo}
	if i := pricing.FirstOverlap(freightBands(others), candidate); i >= 0 {
		return fmt.Errorf("%w: freight band %s overlaps %s", pricing.ErrBandOverlap, freightLabel(rate), freightLabel(&others[i]))
	}
	return nil
}

// evictFreight drops the group now and once more after reinvalidateAfter.
func (s *rateTableService) evictFreight(ctx context.Context, regionID, serviceType string) {
	s.cache.InvalidateFreight(ctx, regionID, serviceType)
	s.later(ctx, func(ctx context.Context) { s.cache.InvalidateFreight(ctx, regionID, serviceType) })
}

func (s *rateTableService) evictCommission(ctx context.Context, categoryID, channelType, serviceType string) {
	s.cache.InvalidateCommission(ctx, categoryID, channelType, serviceType)
	s.later(ctx, func(ctx context.Context) { s.cache.InvalidateCommission(ctx, categoryID, channelType, serviceType) })
}

func (s *rateTableService) later(ctx context.Context, fn func(context.Context)) {
	if s.reinvalidateAfter <= 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	time.AfterFunc(s.reinvalidateAfter, func() { fn(ctx) })
}

func validateFreightRequest(req FreightRateRequest) error {
	if !model.ValidServiceType(req.ServiceType) {
		return &pricing.ValidationError{Field: "service_type", Message: "must be FBA, FBM or STANDARD"}
	}
	if !pricing.ValidBand(pricing.Band[struct{}]{From: req.WeightFrom, To: req.WeightTo}) {
		return fmt.Errorf("%w: weight_from must be >= 0 and weight_to greater than weight_from", pricing.ErrInvalidBand)
	}
	if req.Price.IsNegative() {
		return &pricing.ValidationError{Field: "price", Message: "must not be negative"}
	}
	return nil
}

func applyFreightRequest(rate *model.FreightRate, req FreightRateRequest) {
	rate.RegionID = req.RegionID
	rate.ServiceType = req.ServiceType
	rate.WeightFrom = req.WeightFrom
	rate.WeightTo = req.WeightTo
	rate.Price = req.Price
	rate.Active = req.Active == nil || *req.Active
}

func freightLabel(r *model.FreightRate) string {
	return fmt.Sprintf("%s/%s [%s, %s)", r.RegionID, r.ServiceType, r.WeightFrom.String(), upperLabel(r.WeightTo))
}

// --- Commission ---

func (s *rateTableService) ListCommissionRates(ctx context.Context, filter repository.CommissionRateFilter) ([]model.CommissionRate, error) {
	filter.ChannelType = model.NormalizeChannelType(filter.ChannelType)
	rates, err := s.commissionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission rates: %w", err)
	}
	return rates, nil
}

func (s *rateTableService) CreateCommissionRate(ctx context.Context, actorID uuid.UUID, req CommissionRateRequest) (*model.CommissionRate, error) {
	if err := validateCommissionRequest(req); err != nil {
		return nil, err
	}

	rate := &model.CommissionRate{}
	applyCommissionRequest(rate, req)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkCommissionOverlap(txCtx, rate); err != nil {
			return err
		}
		if err := s.commissionRepo.Create(txCtx, rate); err != nil {
			return fmt.Errorf("failed to create commission rate: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, s.log, actorID, model.ActionCreateCommissionRate, rate.ID.String(), commissionLabel(rate), req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evictCommission(ctx, rate.CategoryID, rate.ChannelType, rate.ServiceType)
	return rate, nil
}

func (s *rateTableService) UpdateCommissionRate(ctx context.Context, actorID, id uuid.UUID, req CommissionRateRequest) (*model.CommissionRate, error) {
	if err := validateCommissionRequest(req); err != nil {
		return nil, err
	}

	var rate *model.CommissionRate
	var old model.CommissionRate
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.commissionRepo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &pricing.NotFoundError{Entity: "commission_rate", Message: "Faixa de comissão não encontrada"}
			}
			return fmt.Errorf("failed to fetch commission rate: %w", err)
		}
		old = *existing

		applyCommissionRequest(existing, req)
		if err := s.checkCommissionOverlap(txCtx, existing); err != nil {
			return err
		}
		if err := s.commissionRepo.Update(txCtx, existing); err != nil {
			return fmt.Errorf("failed to update commission rate: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, s.log, actorID, model.ActionUpdateCommissionRate, existing.ID.String(), commissionLabel(existing), req)
		rate = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evictCommission(ctx, old.CategoryID, old.ChannelType, old.ServiceType)
	s.evictCommission(ctx, rate.CategoryID, rate.ChannelType, rate.ServiceType)
	return rate, nil
}

func (s *rateTableService) DeleteCommissionRate(ctx context.Context, actorID, id uuid.UUID) error {
	rate, err := s.commissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &pricing.NotFoundError{Entity: "commission_rate", Message: "Faixa de comissão não encontrada"}
		}
		return fmt.Errorf("failed to fetch commission rate: %w", err)
	}

	if err := s.commissionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete commission rate: %w", err)
	}
	writeAuditLog(ctx, s.auditRepo, s.log, actorID, model.ActionDeleteCommissionRate, id.String(), commissionLabel(rate), map[string]string{"deleted_id": id.String()})

	s.evictCommission(ctx, rate.CategoryID, rate.ChannelType, rate.ServiceType)
	return nil
}

func (s *rateTableService) checkCommissionOverlap(ctx context.Context, rate *model.CommissionRate) error {
	if !rate.Active {
		return nil
	}
	existing, err := s.commissionRepo.ListActiveByGroup(ctx, rate.CategoryID, rate.ChannelType, rate.ServiceType)
	if err != nil {
		return fmt.Errorf("failed to check overlap: %w", err)
	}

	others := make([]model.CommissionRate, 0, len(existing))
	for _, e := range existing {
		if e.ID != rate.ID {
			others = append(others, e)
		}
	}

	candidate := pricing.Band[model.CommissionRate]{From: rate.PriceFrom, To: rate.PriceTo}
	if i := pricing.FirstOverlap(commissionBands(others), candidate); i >= 0 {
		return fmt.Errorf("%w: commission band %s overlaps %s", pricing.ErrBandOverlap, commissionLabel(rate), commissionLabel(&others[i]))
	}
	return nil
}

func validateCommissionRequest(req CommissionRateRequest) error {
	if !model.ValidServiceType(req.ServiceType) {
		return &pricing.ValidationError{Field: "service_type", Message: "must be FBA, FBM or STANDARD"}
	}
	if !pricing.ValidBand(pricing.Band[struct{}]{From: req.PriceFrom, To: req.PriceTo}) {
		return fmt.Errorf("%w: price_from must be >= 0 and price_to greater than price_from", pricing.ErrInvalidBand)
	}
	if req.CommissionPercentage.IsNegative() || req.CommissionPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return &pricing.ValidationError{Field: "commission_percentage", Message: "must be between 0 and 100"}
	}
	if req.NoInterestMultiplier != nil && !req.NoInterestMultiplier.IsPositive() {
		return &pricing.ValidationError{Field: "no_interest_multiplier", Message: "must be greater than 0"}
	}
	return nil
}

func applyCommissionRequest(rate *model.CommissionRate, req CommissionRateRequest) {
	rate.CategoryID = req.CategoryID
	rate.ChannelType = model.NormalizeChannelType(req.ChannelType)
	rate.ServiceType = req.ServiceType
	rate.PriceFrom = req.PriceFrom
	rate.PriceTo = req.PriceTo
	rate.CommissionPercentage = req.CommissionPercentage
	rate.NoInterestMultiplier = req.NoInterestMultiplier
	rate.Active = req.Active == nil || *req.Active
}

func commissionLabel(r *model.CommissionRate) string {
	return fmt.Sprintf("%s/%s/%s [%s, %s]", r.CategoryID, r.ChannelType, r.ServiceType, r.PriceFrom.String(), upperLabel(r.PriceTo))
}

func upperLabel(v *decimal.Decimal) string {
	if v == nil {
		return "∞"
	}
	return v.String()
}
