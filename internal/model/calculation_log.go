package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CalculationLog is the immutable record of one pricing calculation: the request,
// the ordered step trail and the result. Rows are only ever inserted.
type CalculationLog struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ChannelID uuid.UUID       `gorm:"type:uuid;not null;index" json:"channel_id"`
	SalePrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"sale_price"`
	Profit    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"profit"`
	Margin    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"margin"` // unbounded below: a tiny price against a large cost
	Input     datatypes.JSON  `json:"input"`
	Steps     datatypes.JSON  `json:"steps"`
	Result    datatypes.JSON  `json:"result"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

func (l *CalculationLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
