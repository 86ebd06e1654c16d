package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionCreateProduct        = "CREATE_PRODUCT"
	ActionUpdateProduct        = "UPDATE_PRODUCT"
	ActionDeleteProduct        = "DELETE_PRODUCT"
	ActionCreateChannel        = "CREATE_CHANNEL"
	ActionUpdateChannel        = "UPDATE_CHANNEL"
	ActionDeleteChannel        = "DELETE_CHANNEL"
	ActionUpdateSettings       = "UPDATE_PRICING_SETTINGS"
	ActionCreateFreightRate    = "CREATE_FREIGHT_RATE"
	ActionUpdateFreightRate    = "UPDATE_FREIGHT_RATE"
	ActionDeleteFreightRate    = "DELETE_FREIGHT_RATE"
	ActionCreateCommissionRate = "CREATE_COMMISSION_RATE"
	ActionUpdateCommissionRate = "UPDATE_COMMISSION_RATE"
	ActionDeleteCommissionRate = "DELETE_COMMISSION_RATE"
)

// AuditLog tracks Who, What, and When for administrative changes
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"` // Nullable for automated changes
	Action     string         `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string         `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string         `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
