package service

import (
	"context"
	"encoding/json"

	"importhub/internal/model"
	"importhub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// writeAuditLog records an administrative change. Failures are logged and never
// fail the operation.
func writeAuditLog(ctx context.Context, repo repository.AuditRepository, log *zap.Logger, actorID uuid.UUID, action, entityID, entityName string, details interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    datatypes.JSON(detailsJSON),
	}
	if actorID != uuid.Nil {
		entry.UserID = &actorID
	}

	if err := repo.Log(ctx, entry); err != nil {
		log.Warn("failed to write audit log", zap.String("action", action), zap.String("entity_id", entityID), zap.Error(err))
	}
}
