package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/sizepack/internal/optimizer"
)

const lineWidth = 44

// TextRenderer produces a plain-text purchase summary.
type TextRenderer struct {
	prices optimizer.PriceSchedule
}

// NewTextRenderer creates a TextRenderer. The schedule is needed to explain recommendations.
func NewTextRenderer(prices optimizer.PriceSchedule) *TextRenderer {
	return &TextRenderer{prices: prices}
}

func (r *TextRenderer) Render(result optimizer.Result) (string, error) {
	var b strings.Builder

	b.WriteString("CURRENT PURCHASE\n")
	writeItems(&b, result.Current.Items)
	writeAmountLine(&b, "TOTAL CURRENT", result.Current.Total)

	if len(result.Recommendations) > 0 {
		b.WriteString("\nRECOMMENDATIONS\n")
		for _, rec := range result.Recommendations {
			looseUnits := r.prices.UnitsPerPack - rec.UnitsToComplete
			looseCost := r.prices.UnitPrice.Mul(decimal.NewFromInt(int64(looseUnits)))
			fmt.Fprintf(&b, "Buy %d more unit(s) of size %s!\n", rec.UnitsToComplete, label(rec.Size))
			fmt.Fprintf(&b, "  You would form 1 pack for %s instead of paying %s for the loose units.\n",
				money(r.prices.PackPrice), money(looseCost))
			fmt.Fprintf(&b, "  SAVINGS ON THIS SIZE: %s\n", money(rec.Savings))
		}
	}

	b.WriteString("\nOPTIMIZED PURCHASE\n")
	writeItems(&b, result.Optimized.Items)
	writeAmountLine(&b, "TOTAL OPTIMIZED", result.Optimized.Total)

	if savings := result.TotalSavings(); savings.IsPositive() {
		fmt.Fprintf(&b, "\nTOTAL SAVINGS: %s\n", money(savings))
	}

	return b.String(), nil
}

func writeItems(b *strings.Builder, items []optimizer.LineItem) {
	for _, item := range items {
		writeAmountLine(b, fmt.Sprintf("Size %s: %s", label(item.Size), describe(item)), item.Cost)
	}
}

func writeAmountLine(b *strings.Builder, text string, amount decimal.Decimal) {
	fmt.Fprintf(b, "%-*s %10s\n", lineWidth, text, money(amount))
}

func describe(item optimizer.LineItem) string {
	parts := make([]string, 0, 2)
	if item.Packs > 0 {
		parts = append(parts, fmt.Sprintf("%d pack(s)", item.Packs))
	}
	if item.LooseUnits > 0 {
		parts = append(parts, fmt.Sprintf("%d loose", item.LooseUnits))
	}
	return strings.Join(parts, " + ")
}

func label(size optimizer.Size) string {
	return strings.ToUpper(string(size))
}

func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
