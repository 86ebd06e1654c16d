package repository

import (
	"context"
	"fmt"
	"time"

	"importhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatisticsRepository interface {
	// ChannelStats groups the user's calculation logs created in [start, end] by channel.
	ChannelStats(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.ChannelStats, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) ChannelStats(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.ChannelStats, error) {
	var stats []model.ChannelStats
	if err := GetDB(ctx, r.db).Table("calculation_logs").
		Select("calculation_logs.channel_id as channel_id, COALESCE(channels.name, '') as channel_name, "+
			"COUNT(*) as calculations, AVG(calculation_logs.profit) as avg_profit, AVG(calculation_logs.margin) as avg_margin, "+
			"MIN(calculation_logs.margin) as min_margin, MAX(calculation_logs.margin) as max_margin").
		Joins("LEFT JOIN channels ON channels.id = calculation_logs.channel_id").
		Where("calculation_logs.user_id = ? AND calculation_logs.created_at >= ? AND calculation_logs.created_at <= ?", userID, start, end).
		Group("calculation_logs.channel_id, channels.name").
		Order("avg_margin DESC").
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate calculation logs: %w", err)
	}
	return stats, nil
}
