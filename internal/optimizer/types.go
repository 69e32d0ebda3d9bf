package optimizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Size identifies a garment size. Only the labels returned by Sizes are valid.
type Size string

const (
	SizeXS  Size = "xs"
	SizeS   Size = "s"
	SizeM   Size = "m"
	SizeL   Size = "l"
	SizeXL  Size = "xl"
	SizeXXL Size = "xxl"
)

var canonicalSizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

// Sizes returns a copy of the canonical size ordering used for every report.
func Sizes() []Size {
	out := make([]Size, len(canonicalSizes))
	copy(out, canonicalSizes)
	return out
}

// ParseSize resolves a case-insensitive label into a canonical Size.
func ParseSize(raw string) (Size, error) {
	candidate := Size(strings.ToLower(strings.TrimSpace(raw)))
	for _, size := range canonicalSizes {
		if size == candidate {
			return size, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSize, raw)
}

// Quantities maps a size to the number of units requested. A missing size means zero demand.
type Quantities map[Size]int

// PriceSchedule is the fixed pricing configuration applied to a computation.
type PriceSchedule struct {
	PackPrice    decimal.Decimal
	UnitPrice    decimal.Decimal
	UnitsPerPack int
}

// DefaultPriceSchedule returns 12.75 per pack of 5 and 3.55 per loose unit.
func DefaultPriceSchedule() PriceSchedule {
	return PriceSchedule{
		PackPrice:    decimal.RequireFromString("12.75"),
		UnitPrice:    decimal.RequireFromString("3.55"),
		UnitsPerPack: 5,
	}
}

// NewPriceSchedule builds a validated PriceSchedule.
func NewPriceSchedule(packPrice, unitPrice decimal.Decimal, unitsPerPack int) (PriceSchedule, error) {
	ps := PriceSchedule{
		PackPrice:    packPrice,
		UnitPrice:    unitPrice,
		UnitsPerPack: unitsPerPack,
	}
	if err := ps.Validate(); err != nil {
		return PriceSchedule{}, err
	}
	return ps, nil
}

// Validate reports whether the schedule can be used by Compute.
func (p PriceSchedule) Validate() error {
	if p.UnitsPerPack <= 0 {
		return fmt.Errorf("%w: units per pack %d", ErrInvalidPriceSchedule, p.UnitsPerPack)
	}
	if p.PackPrice.IsNegative() || p.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: pack price %s, unit price %s", ErrInvalidPriceSchedule, p.PackPrice, p.UnitPrice)
	}
	return nil
}

// LineItem is the purchase breakdown for a single size.
type LineItem struct {
	Size       Size
	Packs      int
	LooseUnits int
	Cost       decimal.Decimal
}

// Report is an ordered set of line items and their summed cost.
type Report struct {
	Items []LineItem
	Total decimal.Decimal
}

// Recommendation suggests buying UnitsToComplete more loose units of Size so a pack can be bought
// instead. Savings is the loose-unit cost minus the pack price and may be negative.
type Recommendation struct {
	Size            Size
	UnitsToComplete int
	Savings         decimal.Decimal
}

// Result is the outcome of a single Compute call.
type Result struct {
	Current         Report
	Optimized       Report
	Recommendations []Recommendation
}

// TotalSavings returns the difference between the current and optimized totals.
func (r Result) TotalSavings() decimal.Decimal {
	return r.Current.Total.Sub(r.Optimized.Total)
}
