package repository

import (
	"context"

	"importhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FreightRateFilter struct {
	RegionID    string
	ServiceType string
}

type FreightRateRepository interface {
	Create(ctx context.Context, rate *model.FreightRate) error
	Update(ctx context.Context, rate *model.FreightRate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FreightRate, error)
	List(ctx context.Context, filter FreightRateFilter) ([]model.FreightRate, error)
	// ListActiveByGroup returns the active bands of one (region, service) group
	// ordered by lower bound.
	ListActiveByGroup(ctx context.Context, regionID, serviceType string) ([]model.FreightRate, error)
}

type freightRateRepository struct {
	db *gorm.DB
}

func NewFreightRateRepository(db *gorm.DB) FreightRateRepository {
	return &freightRateRepository{db: db}
}

func (r *freightRateRepository) Create(ctx context.Context, rate *model.FreightRate) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *freightRateRepository) Update(ctx context.Context, rate *model.FreightRate) error {
	return GetDB(ctx, r.db).Save(rate).Error
}

func (r *freightRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.FreightRate{}).Error
}

func (r *freightRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FreightRate, error) {
	var rate model.FreightRate
	if err := GetDB(ctx, r.db).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *freightRateRepository) List(ctx context.Context, filter FreightRateFilter) ([]model.FreightRate, error) {
	var rates []model.FreightRate
	db := GetDB(ctx, r.db).Model(&model.FreightRate{})
	if filter.RegionID != "" {
		db = db.Where("region_id = ?", filter.RegionID)
	}
	if filter.ServiceType != "" {
		db = db.Where("service_type = ?", filter.ServiceType)
	}
	if err := db.Order("region_id, service_type, weight_from").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *freightRateRepository) ListActiveByGroup(ctx context.Context, regionID, serviceType string) ([]model.FreightRate, error) {
	var rates []model.FreightRate
	if err := GetDB(ctx, r.db).
		Where("region_id = ? AND service_type = ? AND active = ?", regionID, serviceType, true).
		Order("weight_from asc").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}
