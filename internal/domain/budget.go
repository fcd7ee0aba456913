package domain

import (
	"cmp"
	"slices"
)

// CategoryTotal is one line of the per-category spend breakdown.
// Percent is the share of the overall total cost, 0 when the total is 0.
type CategoryTotal struct {
	Category Category
	Total    float64
	Percent  float64
}

// BudgetSummary is the budget view of a trip, derived from its activities.
// Remaining and UsedPercent are nil when the trip has no budget;
// UsedPercent is also nil for a zero budget.
type BudgetSummary struct {
	Budget      *float64
	TotalCost   float64
	Remaining   *float64
	UsedPercent *float64
	OverBudget  bool
	Categories  []CategoryTotal
}

// TotalCost sums EstimatedCost over every activity, locked in or not.
func TotalCost(activities []Activity) float64 {
	var total float64
	for _, a := range activities {
		total += a.EstimatedCost
	}
	return total
}

// Remaining returns budget - total. A negative result means over budget.
func Remaining(budget, total float64) float64 {
	return budget - total
}

// UsedPercent returns 100 * total / budget. ok is false when budget <= 0,
// where the percentage is undefined.
func UsedPercent(budget, total float64) (pct float64, ok bool) {
	if budget <= 0 {
		return 0, false
	}
	return 100 * total / budget, true
}

// ByCategory sums costs per category, ordered by descending total.
// Ties are broken by category name so the order is deterministic.
// An empty input yields an empty, non-nil slice.
func ByCategory(activities []Activity) []CategoryTotal {
	sums := make(map[Category]float64)
	for _, a := range activities {
		sums[a.Category] += a.EstimatedCost
	}
	total := TotalCost(activities)

	out := make([]CategoryTotal, 0, len(sums))
	for c, sum := range sums {
		ct := CategoryTotal{Category: c, Total: sum}
		if total > 0 {
			ct.Percent = 100 * sum / total
		}
		out = append(out, ct)
	}
	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// SummarizeBudget builds the full budget view for a set of activities and an
// optional trip budget.
func SummarizeBudget(activities []Activity, budget *float64) BudgetSummary {
	s := BudgetSummary{
		Budget:     budget,
		TotalCost:  TotalCost(activities),
		Categories: ByCategory(activities),
	}
	if budget == nil {
		return s
	}
	rem := Remaining(*budget, s.TotalCost)
	s.Remaining = &rem
	s.OverBudget = rem < 0
	if pct, ok := UsedPercent(*budget, s.TotalCost); ok {
		s.UsedPercent = &pct
	}
	return s
}
