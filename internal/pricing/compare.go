package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Health is a presentation tier derived from margin %.
type Health string

const (
	HealthUnhealthy Health = "unhealthy"
	HealthMarginal  Health = "marginal"
	HealthHealthy   Health = "healthy"
)

// HealthThresholds are the margin % lower bounds of the marginal and healthy tiers.
type HealthThresholds struct {
	Marginal decimal.Decimal
	Healthy  decimal.Decimal
}

var DefaultHealthThresholds = HealthThresholds{
	Marginal: decimal.NewFromInt(10),
	Healthy:  decimal.NewFromInt(20),
}

// Classify maps a margin % to its health tier.
func (h HealthThresholds) Classify(margin decimal.Decimal) Health {
	switch {
	case margin.LessThan(h.Marginal):
		return HealthUnhealthy
	case margin.LessThan(h.Healthy):
		return HealthMarginal
	default:
		return HealthHealthy
	}
}

// SortKey selects the metric channels are ranked by.
type SortKey string

const (
	SortByMargin SortKey = "margin"
	SortByProfit SortKey = "profit"
	SortByROI    SortKey = "roi"
)

// ParseSortKey returns the key for s, defaulting to margin for an empty string.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case "":
		return SortByMargin, true
	case SortByMargin, SortByProfit, SortByROI:
		return SortKey(s), true
	}
	return "", false
}

// ChannelComparison is one channel's result in a comparison.
type ChannelComparison struct {
	ChannelName  string  `json:"channel_name"`
	ChannelType  string  `json:"channel_type"`
	Result       *Result `json:"result"`
	IsProfitable bool    `json:"is_profitable"`
	Health       Health  `json:"health"`
}

// NewComparison classifies a result for presentation.
func NewComparison(name, channelType string, r *Result, th HealthThresholds) ChannelComparison {
	return ChannelComparison{
		ChannelName:  name,
		ChannelType:  channelType,
		Result:       r,
		IsProfitable: r.Profit.IsPositive(),
		Health:       th.Classify(r.Margin),
	}
}

func (c ChannelComparison) metric(key SortKey) decimal.Decimal {
	switch key {
	case SortByProfit:
		return c.Result.Profit
	case SortByROI:
		return c.Result.ROI
	default:
		return c.Result.Margin
	}
}

// Rank sorts entries in place, highest metric first. Equal metrics are ordered by
// channel name so the output is stable across runs.
func Rank(entries []ChannelComparison, key SortKey) {
	sort.SliceStable(entries, func(i, j int) bool {
		mi, mj := entries[i].metric(key), entries[j].metric(key)
		if !mi.Equal(mj) {
			return mi.GreaterThan(mj)
		}
		return entries[i].ChannelName < entries[j].ChannelName
	})
}
