package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Step is one line of the calculation audit trail.
type Step struct {
	Index       string           `json:"step"`
	Description string           `json:"description"`
	Calculation string           `json:"calculation"`
	Value       decimal.Decimal  `json:"value"`
	Rate        *decimal.Decimal `json:"rate,omitempty"` // percent
}

// Breakdown groups the total cost by category. Freight is inbound plus outbound.
type Breakdown struct {
	Base       decimal.Decimal `json:"base"`
	Packaging  decimal.Decimal `json:"packaging"`
	Freight    decimal.Decimal `json:"freight"`
	PrepCenter decimal.Decimal `json:"prep_center"`
	Fixed      decimal.Decimal `json:"fixed"`
	Commission decimal.Decimal `json:"commission"`
	Tax        decimal.Decimal `json:"tax"`
	Ads        decimal.Decimal `json:"ads"`
	Other      decimal.Decimal `json:"other"`
}

// Sum adds up every category.
func (b Breakdown) Sum() decimal.Decimal {
	return decimal.Sum(b.Base, b.Packaging, b.Freight, b.PrepCenter, b.Fixed, b.Commission, b.Tax, b.Ads, b.Other)
}

// AppliedRates are the effective rates used by the calculation.
type AppliedRates struct {
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	FreightRate       decimal.Decimal `json:"freight_rate"`
	TaxPercent        decimal.Decimal `json:"tax_percent"`
}

// Result is the full output of one calculation.
type Result struct {
	ProductID uuid.UUID       `json:"product_id"`
	ChannelID uuid.UUID       `json:"channel_id"`
	SalePrice decimal.Decimal `json:"sale_price"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"margin"`
	ROI       decimal.Decimal `json:"roi"`
	Breakdown Breakdown       `json:"breakdown"`
	Rates     AppliedRates    `json:"applied_rates"`
	Steps     []Step          `json:"steps"`
	Warnings  []string        `json:"warnings"`
}

var hundred = decimal.NewFromInt(100)

// Margin returns profit as a percentage of the sale price, or zero when the sale
// price is zero.
func Margin(profit, salePrice decimal.Decimal) decimal.Decimal {
	if salePrice.IsZero() {
		return decimal.Zero
	}
	return profit.Div(salePrice).Mul(hundred)
}

// ROI returns profit as a percentage of the base cost, or zero when the base cost
// is zero.
func ROI(profit, baseCost decimal.Decimal) decimal.Decimal {
	if baseCost.IsZero() {
		return decimal.Zero
	}
	return profit.Div(baseCost).Mul(hundred)
}
