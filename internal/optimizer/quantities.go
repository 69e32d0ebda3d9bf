package optimizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseQuantity normalizes a user-entered quantity. Blank, unparsable and non-positive input
// yields 0, which callers treat as absent.
func ParseQuantity(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0
	}
	return value
}

// Add accumulates quantity into size. Non-positive quantities are ignored; a sum that would
// exceed math.MaxInt returns ErrQuantityOverflow and leaves q unchanged.
func (q Quantities) Add(size Size, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	if q[size] > math.MaxInt-quantity {
		return fmt.Errorf("%w: size %s", ErrQuantityOverflow, size)
	}
	q[size] += quantity
	return nil
}

// NormalizeQuantities converts raw labelled input into Quantities, dropping absent entries.
// Labels that differ only in case or surrounding space are summed.
func NormalizeQuantities(raw map[string]string) (Quantities, error) {
	out := make(Quantities, len(raw))
	for label, value := range raw {
		size, err := ParseSize(label)
		if err != nil {
			return nil, err
		}
		if err := out.Add(size, ParseQuantity(value)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
