package optimizer

import "github.com/shopspring/decimal"

// Optimizer describes the behaviour required from a purchase optimizer.
type Optimizer interface {
	Compute(quantities Quantities, prices PriceSchedule) Result
}

type thresholdOptimizer struct{}

// New creates an Optimizer that proposes completing a pack once a size is a single unit short of
// one. The trigger is the fixed threshold, not a cost comparison, so a recommendation can carry
// negative savings under some schedules.
func New() Optimizer {
	return &thresholdOptimizer{}
}

func (o *thresholdOptimizer) Compute(quantities Quantities, prices PriceSchedule) Result {
	result := Result{
		Current:         Report{Items: []LineItem{}, Total: decimal.Zero},
		Optimized:       Report{Items: []LineItem{}, Total: decimal.Zero},
		Recommendations: []Recommendation{},
	}
	if prices.UnitsPerPack <= 0 {
		return result
	}

	threshold := prices.UnitsPerPack - 1
	for _, size := range canonicalSizes {
		quantity := quantities[size]
		if quantity <= 0 {
			continue
		}

		packs := quantity / prices.UnitsPerPack
		loose := quantity % prices.UnitsPerPack
		looseCost := prices.UnitPrice.Mul(decimal.NewFromInt(int64(loose)))

		current := LineItem{
			Size:       size,
			Packs:      packs,
			LooseUnits: loose,
			Cost:       prices.PackPrice.Mul(decimal.NewFromInt(int64(packs))).Add(looseCost),
		}
		result.Current.Items = append(result.Current.Items, current)
		result.Current.Total = result.Current.Total.Add(current.Cost)

		optimized := current
		if loose > 0 && loose >= threshold {
			result.Recommendations = append(result.Recommendations, Recommendation{
				Size:            size,
				UnitsToComplete: prices.UnitsPerPack - loose,
				Savings:         looseCost.Sub(prices.PackPrice),
			})
			optimized = LineItem{
				Size:       size,
				Packs:      packs + 1,
				LooseUnits: 0,
				Cost:       prices.PackPrice.Mul(decimal.NewFromInt(int64(packs + 1))),
			}
		}
		result.Optimized.Items = append(result.Optimized.Items, optimized)
		result.Optimized.Total = result.Optimized.Total.Add(optimized.Cost)
	}

	return result
}
