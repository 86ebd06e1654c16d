package service

import (
	"context"
	"time"

	"importhub/internal/model"
	"importhub/internal/pricing"
	"importhub/internal/repository"

	"github.com/google/uuid"
)

type StatisticsService interface {
	GetStatistics(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (model.CalculationStatistics, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics summarises the caller's saved calculations per channel
func (s *statisticsService) GetStatistics(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (model.CalculationStatistics, error) {
	res := model.CalculationStatistics{TimeRangeStartDate: startDate, TimeRangeEndDate: endDate, Channels: []model.ChannelStats{}}
	if endDate.Before(startDate) {
		return res, &pricing.ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}

	stats, err := s.repo.ChannelStats(ctx, userID, startDate, endDate)
	if err != nil {
		return res, err
	}

	for i := range stats {
		stats[i].AvgProfit = stats[i].AvgProfit.Round(4)
		stats[i].AvgMargin = stats[i].AvgMargin.Round(4)
		res.TotalCalculations += stats[i].Calculations
	}
	res.Channels = append(res.Channels, stats...)
	return res, nil
}
