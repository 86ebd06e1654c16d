package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserSettings holds per-tenant pricing defaults. A missing row means no freight
// region and zero tax.
type UserSettings struct {
	UserID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	RegionID      *string         `gorm:"type:varchar(64)" json:"region_id"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"tax_percentage"` // e.g. 5 = 5%
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
