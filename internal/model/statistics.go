package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationStatistics aggregates saved calculation logs over a time range.
type CalculationStatistics struct {
	TotalCalculations  int64          `json:"total_calculations"`
	Channels           []ChannelStats `json:"channels"`
	TimeRangeStartDate time.Time      `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time      `json:"time_range_end_date"`
}

// ChannelStats summarises the saved calculations of one channel, best average
// margin first.
type ChannelStats struct {
	ChannelID    string          `json:"channel_id"`
	ChannelName  string          `json:"channel_name"`
	Calculations int64           `json:"calculations"`
	AvgProfit    decimal.Decimal `json:"avg_profit"`
	AvgMargin    decimal.Decimal `json:"avg_margin"`
	MinMargin    decimal.Decimal `json:"min_margin"`
	MaxMargin    decimal.Decimal `json:"max_margin"`
}
