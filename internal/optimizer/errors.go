package optimizer

import "errors"

var (
	// ErrUnknownSize is returned when a size label is not part of the canonical size set.
	ErrUnknownSize = errors.New("size must be one of xs, s, m, l, xl, xxl")
	// ErrInvalidPriceSchedule is returned when prices are negative or a pack holds no units.
	ErrInvalidPriceSchedule = errors.New("price schedule requires non-negative prices and a positive pack size")
	// ErrQuantityOverflow is returned when summed quantities for one size exceed the int range.
	ErrQuantityOverflow = errors.New("quantity is too large")
)
