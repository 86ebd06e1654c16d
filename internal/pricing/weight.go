package pricing

import "github.com/shopspring/decimal"

// DefaultVolumetricDivisor converts cm³ to kg (1 kg per 6000 cm³).
var DefaultVolumetricDivisor = decimal.NewFromInt(6000)

// BillableWeight returns the greater of the actual weight and the volumetric weight
// length × width × height / divisor. A non-positive divisor disables the volumetric
// term.
func BillableWeight(weight, length, width, height, divisor decimal.Decimal) decimal.Decimal {
	if !divisor.IsPositive() {
		return weight
	}
	volumetric := length.Mul(width).Mul(height).Div(divisor)
	if volumetric.GreaterThan(weight) {
		return volumetric
	}
	return weight
}
