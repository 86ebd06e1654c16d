package service

import (
	"context"
	"errors"
	"fmt"

	"importhub/internal/model"
	"importhub/internal/pricing"
	"importhub/internal/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DTOs
type ProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	CategoryID    string          `json:"category_id"`
	BaseCost      decimal.Decimal `json:"base_cost"`
	PackagingCost decimal.Decimal `json:"packaging_cost"`
	WeightKg      decimal.Decimal `json:"weight_kg"`
	LengthCm      decimal.Decimal `json:"length_cm"`
	WidthCm       decimal.Decimal `json:"width_cm"`
	HeightCm      decimal.Decimal `json:"height_cm"`
}

type ChannelRequest struct {
	Name        string `json:"name" binding:"required"`
	ChannelType string `json:"channel_type" binding:"required"`
	ServiceType string `json:"service_type" binding:"required,oneof=FBA FBM STANDARD"`
	Active      *bool  `json:"active"`
}

type CatalogService interface {
	ListProducts(ctx context.Context, userID uuid.UUID, page, limit int, search string) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, userID, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, userID uuid.UUID, req ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, userID, id uuid.UUID, req ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, userID, id uuid.UUID) error

	ListChannels(ctx context.Context, userID uuid.UUID) ([]model.Channel, error)
	GetChannel(ctx context.Context, userID, id uuid.UUID) (*model.Channel, error)
	CreateChannel(ctx context.Context, userID uuid.UUID, req ChannelRequest) (*model.Channel, error)
	UpdateChannel(ctx context.Context, userID, id uuid.UUID, req ChannelRequest) (*model.Channel, error)
	DeleteChannel(ctx context.Context, userID, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	channelRepo repository.ChannelRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	log         *zap.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	channelRepo repository.ChannelRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	log *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		channelRepo: channelRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		log:         log.Named("catalog.service"),
	}
}

// --- Products ---

func (s *catalogService) ListProducts(ctx context.Context, userID uuid.UUID, page, limit int, search string) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.productRepo.List(ctx, userID, page, limit, search)
}

func (s *catalogService) GetProduct(ctx context.Context, userID, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ProductNotFound()
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, userID uuid.UUID, req ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{UserID: userID}
	applyProductRequest(product, req)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, s.log, userID, model.ActionCreateProduct, product.ID.String(), product.Name, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, userID, id uuid.UUID, req ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.GetProduct(txCtx, userID, id)
		if err != nil {
			return err
		}
		applyProductRequest(existing, req)
		if err := s.productRepo.Update(txCtx, existing); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, s.log, userID, model.ActionUpdateProduct, existing.ID.String(), existing.Name, req)
		product = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, userID, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	writeAuditLog(ctx, s.auditRepo, s.log, userID, model.ActionDeleteProduct, id.String(), product.Name, map[string]string{"sku": product.SKU})
	return nil
}

func validateProductRequest(req ProductRequest) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"base_cost", req.BaseCost},
		{"packaging_cost", req.PackagingCost},
		{"weight_kg", req.WeightKg},
		{"length_cm", req.LengthCm},
		{"width_cm", req.WidthCm},
		{"height_cm", req.HeightCm},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return &pricing.ValidationError{Field: f.name, Message: "must not be negative"}
		}
	}
	return nil
}

func applyProductRequest(p *model.Product, req ProductRequest) {
	p.SKU = req.SKU
	p.Name = req.Name
	p.CategoryID = req.CategoryID
	p.BaseCost = req.BaseCost
	p.PackagingCost = req.PackagingCost
	p.WeightKg = req.WeightKg
	p.LengthCm = req.LengthCm
	p.WidthCm = req.WidthCm
	p.HeightCm = req.HeightCm
}

// --- Channels ---

func (s *catalogService) ListChannels(ctx context.Context, userID uuid.UUID) ([]model.Channel, error) {
	return s.channelRepo.List(ctx, userID)
}

func (s *catalogService) GetChannel(ctx context.Context, userID, id uuid.UUID) (*model.Channel, error) {
	channel, err := s.channelRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ChannelNotFound()
		}
		return nil, fmt.Errorf("failed to fetch channel: %w", err)
	}
	return channel, nil
}

func (s *catalogService) CreateChannel(ctx context.Context, userID uuid.UUID, req ChannelRequest) (*model.Channel, error) {
	if !model.ValidServiceType(req.ServiceType) {
		return nil, &pricing.ValidationError{Field: "service_type", Message: "must be FBA, FBM or STANDARD"}
	}

	channel := &model.Channel{UserID: userID}
	applyChannelRequest(channel, req)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.channelRepo.Create(txCtx, channel); err != nil {
			return fmt.Errorf("failed to create channel: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, s.log, userID, model.ActionCreateChannel, channel.ID.String(), channel.Name, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *catalogService) UpdateChannel(ctx context.Context, userID, id uuid.UUID, req ChannelRequest) (*model.Channel, error) {
	if !model.ValidServiceType(req.ServiceType) {
		return nil, &pricing.ValidationError{Field: "service_type", Message: "must be FBA, FBM or STANDARD"}
	}

	var channel *model.Channel
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.GetChannel(txCtx, userID, id)
		if err != nil {
			return err
		}
		applyChannelRequest(existing, req)
		if err := s.channelRepo.Update(txCtx, existing); err != nil {
			return fmt.Errorf("failed to update channel: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, s.log, userID, model.ActionUpdateChannel, existing.ID.String(), existing.Name, req)
		channel = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *catalogService) DeleteChannel(ctx context.Context, userID, id uuid.UUID) error {
	channel, err := s.GetChannel(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.channelRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	writeAuditLog(ctx, s.auditRepo, s.log, userID, model.ActionDeleteChannel, id.String(), channel.Name, map[string]string{"code": channel.Code})
	return nil
}

func applyChannelRequest(c *model.Channel, req ChannelRequest) {
	c.Name = req.Name
	c.Code = slug.Make(req.Name)
	c.ChannelType = model.NormalizeChannelType(req.ChannelType)
	c.ServiceType = req.ServiceType
	c.Active = req.Active == nil || *req.Active
}
