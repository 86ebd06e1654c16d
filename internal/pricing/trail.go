package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// trail accumulates steps and the running total. It is owned by a single
// calculation and frozen by steps().
type trail struct {
	items []Step
	total decimal.Decimal
}

func (t *trail) add(description, calculation string, value decimal.Decimal, rate *decimal.Decimal) {
	t.items = append(t.items, Step{
		Index:       strconv.Itoa(len(t.items) + 1),
		Description: description,
		Calculation: calculation,
		Value:       value,
		Rate:        rate,
	})
	t.total = t.total.Add(value)
}

// addNonZero appends only when value is not zero.
func (t *trail) addNonZero(description, calculation string, value decimal.Decimal, rate *decimal.Decimal) {
	if value.IsZero() {
		return
	}
	t.add(description, calculation, value, rate)
}

func (t *trail) steps() []Step {
	out := make([]Step, len(t.items))
	copy(out, t.items)
	return out
}
