package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item owned by a single tenant (user). The pricing engine only
// reads it: costs, category and physical dimensions.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	SKU           string          `gorm:"type:varchar(100);not null;index" json:"sku"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID    string          `gorm:"type:varchar(64);index" json:"category_id"`
	BaseCost      decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"base_cost"`
	PackagingCost decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"packaging_cost"`
	WeightKg      decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"weight_kg"`
	LengthCm      decimal.Decimal `gorm:"type:decimal(12,2)" json:"length_cm"`
	WidthCm       decimal.Decimal `gorm:"type:decimal(12,2)" json:"width_cm"`
	HeightCm      decimal.Decimal `gorm:"type:decimal(12,2)" json:"height_cm"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
