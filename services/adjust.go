package services

import "fmt"

// Adjustment method identifiers.
const (
	AdjustProportional = "proportional"
	AdjustFixedMargin  = "fixed_margin"
	AdjustPerCategory  = "per_category"
)

// PerCategoryDefaultMargin is applied when an item's category is absent from
// the supplied margin table.
const PerCategoryDefaultMargin = 20

// Adjustment is a tagged choice of bulk adjustment strategy. Only the fields
// relevant to Method are consulted.
type Adjustment struct {
	Method          string             `json:"method"`
	TargetBudget    float64            `json:"target_budget"`
	MarginPct       float64            `json:"margin_pct"`
	CategoryMargins map[string]float64 `json:"category_margins"`
}

// ApplyAdjustment rewrites margin and total on every item according to the
// chosen strategy, leaving cost and quantity untouched. It returns the
// adjusted collection and whether anything changed; missing or malformed
// parameters make the call a no-op rather than an error. The only error case
// is a proportional adjustment over a zero current budget, which would
// otherwise produce an infinite factor.
func ApplyAdjustment(items []LineItem, adj Adjustment) ([]LineItem, bool, error) {
	out := make([]LineItem, len(items))
	copy(out, items)

	switch adj.Method {
	case AdjustProportional:
		if adj.TargetBudget <= 0 {
			return out, false, nil
		}
		current := BudgetTotal(out)
		if current == 0 {
			return out, false, fmt.Errorf("cannot adjust proportionally: current budget is zero")
		}
		factor := adj.TargetBudget / current
		for i := range out {
			out[i].Total *= factor
			out[i].Margin = SolveMargin(out[i].Total, out[i].Cost)
		}
		return out, len(out) > 0, nil

	case AdjustFixedMargin:
		if adj.MarginPct < 0 {
			return out, false, nil
		}
		for i := range out {
			out[i].Margin = adj.MarginPct
			// Taxes and additional costs are intentionally not reapplied
			// here; see the creation path for the asymmetry.
			out[i].Total = ComposeTotal(out[i].Cost, adj.MarginPct, nil, nil)
		}
		return out, len(out) > 0, nil

	case AdjustPerCategory:
		if len(adj.CategoryMargins) == 0 {
			return out, false, nil
		}
		for i := range out {
			margin, ok := adj.CategoryMargins[out[i].Category]
			if !ok {
				margin = PerCategoryDefaultMargin
			}
			out[i].Margin = margin
			out[i].Total = ComposeTotal(out[i].Cost, margin, nil, nil)
		}
		return out, len(out) > 0, nil
	}

	return out, false, nil
}
