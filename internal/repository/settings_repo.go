package repository

import (
	"context"
	"errors"

	"importhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns nil settings, without error, when the user has none.
	Get(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error)
	Save(ctx context.Context, settings *model.UserSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error) {
	var settings model.UserSettings
	err := GetDB(ctx, r.db).First(&settings, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *model.UserSettings) error {
	return GetDB(ctx, r.db).Save(settings).Error
}
