package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FreightRate is one weight band of the freight table for a (region, service) group.
// WeightFrom is inclusive, WeightTo exclusive; a nil WeightTo is open-ended.
type FreightRate struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RegionID    string           `gorm:"type:varchar(64);not null;index:idx_freight_group" json:"region_id"`
	ServiceType string           `gorm:"type:varchar(20);not null;index:idx_freight_group" json:"service_type"`
	WeightFrom  decimal.Decimal  `gorm:"type:decimal(12,4);not null" json:"weight_from"`
	WeightTo    *decimal.Decimal `gorm:"type:decimal(12,4)" json:"weight_to"` // nullable = open-ended
	Price       decimal.Decimal  `gorm:"type:decimal(14,4);not null" json:"price"`
	Active      bool             `gorm:"not null" json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (r *FreightRate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// CommissionRate is one price band of a marketplace commission table for a
// (category, channel type, service) group. PriceTo is inclusive when set.
type CommissionRate struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID           string           `gorm:"type:varchar(64);not null;index:idx_commission_group" json:"category_id"`
	ChannelType          string           `gorm:"type:varchar(50);not null;index:idx_commission_group" json:"channel_type"`
	ServiceType          string           `gorm:"type:varchar(20);not null;index:idx_commission_group" json:"service_type"`
	PriceFrom            decimal.Decimal  `gorm:"type:decimal(14,4);not null" json:"price_from"`
	PriceTo              *decimal.Decimal `gorm:"type:decimal(14,4)" json:"price_to"`
	CommissionPercentage decimal.Decimal  `gorm:"type:decimal(8,4);not null" json:"commission_percentage"` // e.g. 15 = 15%
	NoInterestMultiplier *decimal.Decimal `gorm:"type:decimal(8,4)" json:"no_interest_multiplier"`         // nil = 1
	Active               bool             `gorm:"not null" json:"active"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func (r *CommissionRate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
