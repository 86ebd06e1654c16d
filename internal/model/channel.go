package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceType enum constants
const (
	ServiceTypeFBA      = "FBA"
	ServiceTypeFBM      = "FBM"
	ServiceTypeStandard = "STANDARD"
)

// ValidServiceType reports whether s is one of the known fulfilment modes.
func ValidServiceType(s string) bool {
	switch s {
	case ServiceTypeFBA, ServiceTypeFBM, ServiceTypeStandard:
		return true
	}
	return false
}

// NormalizeChannelType returns the lowercase code channel types are stored and
// matched by, so "Amazon" and "amazon" select the same commission bands.
func NormalizeChannelType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Channel is a sales outlet (marketplace or own site) configured by a tenant.
// ChannelType selects the commission table, ServiceType the freight and commission tier.
type Channel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Code        string         `gorm:"type:varchar(255);not null;index" json:"code"` // slug of Name
	ChannelType string         `gorm:"type:varchar(50);not null;index" json:"channel_type"`
	ServiceType string         `gorm:"type:varchar(20);not null" json:"service_type"` // FBA, FBM, STANDARD
	Active      bool           `gorm:"not null" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Channel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
