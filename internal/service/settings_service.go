package service

import (
	"context"
	"fmt"

	"importhub/internal/model"
	"importhub/internal/pricing"
	"importhub/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SettingsRequest struct {
	RegionID      *string         `json:"region_id"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
}

type SettingsService interface {
	// Get returns the stored settings or zero-value defaults (no region, 0% tax).
	Get(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error)
	Update(ctx context.Context, userID uuid.UUID, req SettingsRequest) (*model.UserSettings, error)
}

type settingsService struct {
	repo      repository.SettingsRepository
	auditRepo repository.AuditRepository
	log       *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, auditRepo repository.AuditRepository, log *zap.Logger) SettingsService {
	return &settingsService{repo: repo, auditRepo: auditRepo, log: log.Named("settings.service")}
}

func (s *settingsService) Get(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		return &model.UserSettings{UserID: userID, TaxPercentage: decimal.Zero}, nil
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, userID uuid.UUID, req SettingsRequest) (*model.UserSettings, error) {
	if req.TaxPercentage.IsNegative() || req.TaxPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, &pricing.ValidationError{Field: "tax_percentage", Message: "must be between 0 and 100"}
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.RegionID = req.RegionID
	if settings.RegionID != nil && *settings.RegionID == "" {
		settings.RegionID = nil
	}
	settings.TaxPercentage = req.TaxPercentage

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	writeAuditLog(ctx, s.auditRepo, s.log, userID, model.ActionUpdateSettings, userID.String(), "pricing settings", req)
	return settings, nil
}
