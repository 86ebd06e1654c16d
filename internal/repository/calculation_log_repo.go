package repository

import (
	"context"

	"importhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalculationLogRepository is append-only: there is no update or delete.
type CalculationLogRepository interface {
	Create(ctx context.Context, entry *model.CalculationLog) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.CalculationLog, error)
	List(ctx context.Context, userID uuid.UUID, productID *uuid.UUID, page, limit int) ([]model.CalculationLog, int64, error)
}

type calculationLogRepository struct {
	db *gorm.DB
}

func NewCalculationLogRepository(db *gorm.DB) CalculationLogRepository {
	return &calculationLogRepository{db: db}
}

func (r *calculationLogRepository) Create(ctx context.Context, entry *model.CalculationLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *calculationLogRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.CalculationLog, error) {
	var entry model.CalculationLog
	if err := GetDB(ctx, r.db).First(&entry, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *calculationLogRepository) List(ctx context.Context, userID uuid.UUID, productID *uuid.UUID, page, limit int) ([]model.CalculationLog, int64, error) {
	var logs []model.CalculationLog
	var total int64

	db := GetDB(ctx, r.db).Model(&model.CalculationLog{}).Where("user_id = ?", userID)
	if productID != nil {
		db = db.Where("product_id = ?", *productID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
