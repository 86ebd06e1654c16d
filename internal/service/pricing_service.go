package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"importhub/internal/config"
	"importhub/internal/metrics"
	"importhub/internal/model"
	"importhub/internal/pricing"
	"importhub/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventCalculationLogSaved is published after a calculation log is stored.
const EventCalculationLogSaved = "calculation_log.saved"

// compareConcurrency bounds the per-channel calculations run in parallel.
const compareConcurrency = 8

// EventPublisher pushes domain events to the connected clients of one user.
type EventPublisher interface {
	Publish(userID uuid.UUID, event string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(uuid.UUID, string, interface{}) {}

// CompareRequest prices one product on every active channel of the user.
type CompareRequest struct {
	ProductID uuid.UUID         `json:"product_id"`
	SalePrice decimal.Decimal   `json:"sale_price"`
	Overrides pricing.Overrides `json:"overrides"`
	Settings  pricing.Settings  `json:"settings"`
	SortBy    string            `json:"sort_by"`
}

type CalculationLogResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	ChannelID string          `json:"channel_id"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"margin"`
	Input     json.RawMessage `json:"input"`
	Steps     json.RawMessage `json:"steps"`
	Result    json.RawMessage `json:"result"`
	CreatedAt string          `json:"created_at"`
}

type PricingService interface {
	Calculate(ctx context.Context, userID uuid.UUID, in pricing.Input) (*pricing.Result, error)
	SaveCalculationLog(ctx context.Context, userID uuid.UUID, in pricing.Input, res *pricing.Result) (*CalculationLogResponse, error)
	CompareChannels(ctx context.Context, userID uuid.UUID, req CompareRequest) ([]pricing.ChannelComparison, error)
	ListCalculationLogs(ctx context.Context, userID uuid.UUID, productID *uuid.UUID, page, limit int) ([]CalculationLogResponse, int64, error)
	GetCalculationLog(ctx context.Context, userID, id uuid.UUID) (*CalculationLogResponse, error)
}

type pricingService struct {
	productRepo  repository.ProductRepository
	channelRepo  repository.ChannelRepository
	settingsRepo repository.SettingsRepository
	logRepo      repository.CalculationLogRepository
	rates        pricing.RateResolver
	cfg          *config.PricingConfigHolder
	events       EventPublisher
	log          *zap.Logger
}

func NewPricingService(
	productRepo repository.ProductRepository,
	channelRepo repository.ChannelRepository,
	settingsRepo repository.SettingsRepository,
	logRepo repository.CalculationLogRepository,
	rates pricing.RateResolver,
	cfg *config.PricingConfigHolder,
	events EventPublisher,
	log *zap.Logger,
) PricingService {
	if events == nil {
		events = nopPublisher{}
	}
	if cfg == nil {
		cfg = config.NewStaticPricingConfig(config.DefaultPricingConfig())
	}
	return &pricingService{
		productRepo:  productRepo,
		channelRepo:  channelRepo,
		settingsRepo: settingsRepo,
		logRepo:      logRepo,
		rates:        rates,
		cfg:          cfg,
		events:       events,
		log:          log.Named("pricing.service"),
	}
}

// Calculate loads the product, channel and user settings and runs the pipeline.
func (s *pricingService) Calculate(ctx context.Context, userID uuid.UUID, in pricing.Input) (*pricing.Result, error) {
	start := time.Now()
	channelType := "unknown"

	res, err := func() (*pricing.Result, error) {
		if err := in.Validate(); err != nil {
			return nil, err
		}

		product, err := s.loadProduct(ctx, userID, in.ProductID)
		if err != nil {
			return nil, err
		}
		channel, err := s.channelRepo.FindByID(ctx, userID, in.ChannelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pricing.ChannelNotFound()
			}
			return nil, fmt.Errorf("failed to fetch channel: %w", err)
		}
		channelType = channel.ChannelType

		settings, err := s.settingsRepo.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}

		return s.run(ctx, product, channel, settings, in)
	}()

	metrics.CalculationDuration.Observe(time.Since(start).Seconds())
	metrics.CalculationsTotal.WithLabelValues(channelType, outcomeOf(err)).Inc()
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *pricingService) run(ctx context.Context, product *model.Product, channel *model.Channel, settings *model.UserSettings, in pricing.Input) (*pricing.Result, error) {
	cfg := s.cfg.Get()
	calc := pricing.NewCalculator(s.rates, pricing.Options{NoInterestSurcharge: cfg.NoInterestSurcharge})

	res, err := calc.Calculate(ctx, subjectOf(product, channel, settings, cfg.VolumetricDivisor), in)
	if err != nil {
		return nil, err
	}
	if len(res.Warnings) > 0 {
		s.log.Info("calculation completed with unmatched rates",
			zap.String("product_id", product.ID.String()),
			zap.String("channel_id", channel.ID.String()),
			zap.Strings("warnings", res.Warnings))
	}
	return res, nil
}

func subjectOf(product *model.Product, channel *model.Channel, settings *model.UserSettings, divisor decimal.Decimal) pricing.Subject {
	subject := pricing.Subject{
		BaseCost:      product.BaseCost,
		PackagingCost: product.PackagingCost,
		Weight:        pricing.BillableWeight(product.WeightKg, product.LengthCm, product.WidthCm, product.HeightCm, divisor),
		CategoryID:    product.CategoryID,
		ChannelName:   channel.Name,
		ChannelType:   channel.ChannelType,
		ServiceType:   channel.ServiceType,
		TaxPercent:    decimal.Zero,
	}
	if settings != nil {
		if settings.RegionID != nil {
			subject.RegionID = *settings.RegionID
		}
		subject.TaxPercent = settings.TaxPercentage
	}
	return subject
}

func (s *pricingService) loadProduct(ctx context.Context, userID, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ProductNotFound()
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case pricing.IsNotFound(err):
		return metrics.OutcomeNotFound
	case pricing.IsValidation(err):
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeError
	}
}

// SaveCalculationLog stores the input, step trail and result of a finished calculation.
func (s *pricingService) SaveCalculationLog(ctx context.Context, userID uuid.UUID, in pricing.Input, res *pricing.Result) (*CalculationLogResponse, error) {
	if res == nil {
		return nil, errors.New("result is required")
	}

	inputJSON, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	stepsJSON, err := json.Marshal(res.Steps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode steps: %w", err)
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	entry := &model.CalculationLog{
		UserID:    userID,
		ProductID: in.ProductID,
		ChannelID: in.ChannelID,
		SalePrice: res.SalePrice,
		Profit:    res.Profit,
		Margin:    res.Margin,
		Input:     datatypes.JSON(inputJSON),
		Steps:     datatypes.JSON(stepsJSON),
		Result:    datatypes.JSON(resultJSON),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save calculation log: %w", err)
	}
	metrics.CalculationLogsSaved.Inc()

	resp := toCalculationLogResponse(*entry)
	s.events.Publish(userID, EventCalculationLogSaved, map[string]interface{}{
		"id":         resp.ID,
		"product_id": resp.ProductID,
		"channel_id": resp.ChannelID,
		"profit":     resp.Profit,
		"margin":     resp.Margin,
	})
	return &resp, nil
}

// CompareChannels prices the product on every active channel concurrently and
// ranks the outcomes. A product that does not exist fails the whole comparison.
func (s *pricingService) CompareChannels(ctx context.Context, userID uuid.UUID, req CompareRequest) ([]pricing.ChannelComparison, error) {
	key, ok := pricing.ParseSortKey(req.SortBy)
	if !ok {
		return nil, &pricing.ValidationError{Field: "sort_by", Message: "must be margin, profit or roi"}
	}
	if req.SalePrice.IsNegative() {
		return nil, &pricing.ValidationError{Field: "sale_price", Message: "must not be negative"}
	}
	if err := req.Overrides.Validate(); err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	channels, err := s.channelRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := s.cfg.Get()
	thresholds := pricing.HealthThresholds{Marginal: cfg.MarginalThreshold, Healthy: cfg.HealthyThreshold}

	entries := make([]pricing.ChannelComparison, len(channels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(compareConcurrency)
	for i := range channels {
		channel := &channels[i]
		g.Go(func() error {
			in := pricing.Input{
				ProductID: product.ID,
				ChannelID: channel.ID,
				SalePrice: req.SalePrice,
				Overrides: req.Overrides,
				Settings:  req.Settings,
			}
			res, err := s.run(gctx, product, channel, settings, in)
			if err != nil {
				return fmt.Errorf("channel %s: %w", channel.Name, err)
			}
			entries[i] = pricing.NewComparison(channel.Name, channel.ChannelType, res, thresholds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pricing.Rank(entries, key)
	return entries, nil
}

func (s *pricingService) ListCalculationLogs(ctx context.Context, userID uuid.UUID, productID *uuid.UUID, page, limit int) ([]CalculationLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	logs, total, err := s.logRepo.List(ctx, userID, productID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list calculation logs: %w", err)
	}

	res := make([]CalculationLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, toCalculationLogResponse(l))
	}
	return res, total, nil
}

func (s *pricingService) GetCalculationLog(ctx context.Context, userID, id uuid.UUID) (*CalculationLogResponse, error) {
	entry, err := s.logRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &pricing.NotFoundError{Entity: "calculation_log", Message: "Registro de cálculo não encontrado"}
		}
		return nil, fmt.Errorf("failed to fetch calculation log: %w", err)
	}
	resp := toCalculationLogResponse(*entry)
	return &resp, nil
}

func toCalculationLogResponse(l model.CalculationLog) CalculationLogResponse {
	return CalculationLogResponse{
		ID:        l.ID.String(),
		ProductID: l.ProductID.String(),
		ChannelID: l.ChannelID.String(),
		SalePrice: l.SalePrice,
		Profit:    l.Profit,
		Margin:    l.Margin,
		Input:     json.RawMessage(l.Input),
		Steps:     json.RawMessage(l.Steps),
		Result:    json.RawMessage(l.Result),
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}
