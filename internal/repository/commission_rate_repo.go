package repository

import (
	"context"

	"importhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommissionRateFilter struct {
	CategoryID  string
	ChannelType string
	ServiceType string
}

type CommissionRateRepository interface {
	Create(ctx context.Context, rate *model.CommissionRate) error
	Update(ctx context.Context, rate *model.CommissionRate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CommissionRate, error)
	List(ctx context.Context, filter CommissionRateFilter) ([]model.CommissionRate, error)
	// ListActiveByGroup returns the active bands of one (category, channel type,
	// service) group ordered by lower bound.
	ListActiveByGroup(ctx context.Context, categoryID, channelType, serviceType string) ([]model.CommissionRate, error)
}

type commissionRateRepository struct {
	db *gorm.DB
}

func NewCommissionRateRepository(db *gorm.DB) CommissionRateRepository {
	return &commissionRateRepository{db: db}
}

func (r *commissionRateRepository) Create(ctx context.Context, rate *model.CommissionRate) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *commissionRateRepository) Update(ctx context.Context, rate *model.CommissionRate) error {
	return GetDB(ctx, r.db).Save(rate).Error
}

func (r *commissionRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CommissionRate{}).Error
}

func (r *commissionRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CommissionRate, error) {
	var rate model.CommissionRate
	if err := GetDB(ctx, r.db).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *commissionRateRepository) List(ctx context.Context, filter CommissionRateFilter) ([]model.CommissionRate, error) {
	var rates []model.CommissionRate
	db := GetDB(ctx, r.db).Model(&model.CommissionRate{})
	if filter.CategoryID != "" {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ChannelType != "" {
		db = db.Where("channel_type = ?", filter.ChannelType)
	}
	if filter.ServiceType != "" {
		db = db.Where("service_type = ?", filter.ServiceType)
	}
	if err := db.Order("category_id, channel_type, service_type, price_from").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *commissionRateRepository) ListActiveByGroup(ctx context.Context, categoryID, channelType, serviceType string) ([]model.CommissionRate, error) {
	var rates []model.CommissionRate
	if err := GetDB(ctx, r.db).
		Where("category_id = ? AND channel_type = ? AND service_type = ? AND active = ?", categoryID, channelType, serviceType, true).
		Order("price_from asc").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}
