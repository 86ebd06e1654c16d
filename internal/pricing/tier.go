package pricing

import "github.com/shopspring/decimal"

// UpperBound selects how a band's upper limit is compared with the lookup key.
type UpperBound int

const (
	// UpperExclusive matches keys in [From, To).
	UpperExclusive UpperBound = iota
	// UpperInclusive matches keys in [From, To].
	UpperInclusive
)

// Band is one tier of a rate table. A nil To means the band has no upper limit.
type Band[T any] struct {
	From  decimal.Decimal
	To    *decimal.Decimal
	Value T
}

// Contains reports whether key falls inside the band under the given upper bound policy.
func (b Band[T]) Contains(key decimal.Decimal, upper UpperBound) bool {
	if key.LessThan(b.From) {
		return false
	}
	if b.To == nil {
		return true
	}
	if upper == UpperInclusive {
		return key.LessThanOrEqual(*b.To)
	}
	return key.LessThan(*b.To)
}

// Lookup returns the band containing key with the lowest lower bound. Bands are
// expected not to overlap; when they do, the result is still deterministic.
// The second return value is false when no band matches.
func Lookup[T any](bands []Band[T], key decimal.Decimal, upper UpperBound) (Band[T], bool) {
	var (
		best  Band[T]
		found bool
	)
	for _, b := range bands {
		if !b.Contains(key, upper) {
			continue
		}
		if !found || b.From.LessThan(best.From) {
			best = b
			found = true
		}
	}
	return best, found
}

// Overlaps reports whether two bands share any key, treating both as half-open
// [From, To). Bands that only touch at a bound do not overlap.
func Overlaps[T, U any](a Band[T], b Band[U]) bool {
	if a.To != nil && !b.From.LessThan(*a.To) {
		return false
	}
	if b.To != nil && !a.From.LessThan(*b.To) {
		return false
	}
	return true
}

// FirstOverlap returns the index of the first band in bands that overlaps candidate,
// or -1.
func FirstOverlap[T, U any](bands []Band[T], candidate Band[U]) int {
	for i, b := range bands {
		if Overlaps(b, candidate) {
			return i
		}
	}
	return -1
}

// ValidBand checks the bounds of a band: From must be non-negative and To, when
// set, strictly greater than From.
func ValidBand[T any](b Band[T]) bool {
	if b.From.IsNegative() {
		return false
	}
	return b.To == nil || b.To.GreaterThan(b.From)
}
