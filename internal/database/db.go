package database

import (
	"fmt"
	"time"

	"importhub/internal/config"
	"importhub/internal/logger"
	"importhub/internal/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection opens the configured database (postgres or sqlite) and migrates
// the schema.
func NewConnection(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(log, 200*time.Millisecond),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Warn("failed to auto-migrate models", zap.Error(err))
	}

	return db, nil
}

// Migrate creates or updates the tables of every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Product{},
		&model.Channel{},
		&model.UserSettings{},
		&model.FreightRate{},
		&model.CommissionRate{},
		&model.CalculationLog{},
		&model.AuditLog{},
	)
}
