package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Overrides replace automatically derived cost components. Nil means "not provided".
// Percentages are expressed as 0..100.
type Overrides struct {
	InboundFreight    *decimal.Decimal `json:"inbound_freight,omitempty"`
	OutboundFreight   *decimal.Decimal `json:"outbound_freight,omitempty"`
	PrepCenterFee     *decimal.Decimal `json:"prep_center_fee,omitempty"`
	FixedCost         *decimal.Decimal `json:"fixed_cost,omitempty"`
	CommissionPercent *decimal.Decimal `json:"commission_percent,omitempty"`
	AdsPercent        *decimal.Decimal `json:"ads_percent,omitempty"`
	OtherCostPercent  *decimal.Decimal `json:"other_cost_percent,omitempty"`
	OtherCostValue    *decimal.Decimal `json:"other_cost_value,omitempty"`
}

// Settings are per-calculation switches.
type Settings struct {
	CustomFreightCalculation bool `json:"custom_freight_calculation"`
	ApplyNoInterestSurcharge bool `json:"apply_no_interest_surcharge"`
}

// Input is one request to the calculator.
type Input struct {
	ProductID uuid.UUID       `json:"product_id"`
	ChannelID uuid.UUID       `json:"channel_id"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Overrides Overrides       `json:"overrides"`
	Settings  Settings        `json:"settings"`
}

// Validate rejects negative prices and overrides. A zero sale price is accepted;
// margin is then reported as zero.
func (in Input) Validate() error {
	if in.ProductID == uuid.Nil {
		return &ValidationError{Field: "product_id", Message: "is required"}
	}
	if in.ChannelID == uuid.Nil {
		return &ValidationError{Field: "channel_id", Message: "is required"}
	}
	if in.SalePrice.IsNegative() {
		return &ValidationError{Field: "sale_price", Message: "must not be negative"}
	}
	return in.Overrides.Validate()
}

// Validate rejects negative override values.
func (o Overrides) Validate() error {
	fields := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"inbound_freight", o.InboundFreight},
		{"outbound_freight", o.OutboundFreight},
		{"prep_center_fee", o.PrepCenterFee},
		{"fixed_cost", o.FixedCost},
		{"commission_percent", o.CommissionPercent},
		{"ads_percent", o.AdsPercent},
		{"other_cost_percent", o.OtherCostPercent},
		{"other_cost_value", o.OtherCostValue},
	}
	for _, f := range fields {
		if f.value != nil && f.value.IsNegative() {
			return &ValidationError{Field: "overrides." + f.name, Message: "must not be negative"}
		}
	}
	return nil
}
