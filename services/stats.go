package services

import (
	"math"
	"sort"
)

// BudgetSummary holds the headline figures shown on the dashboard.
type BudgetSummary struct {
	TotalItems int     `json:"total_items"`
	Budget     float64 `json:"budget"`
	TotalCost  float64 `json:"total_cost"`
	AvgMargin  float64 `json:"avg_margin"`
}

// CategoryStats describes one category's slice of the budget.
type CategoryStats struct {
	Count          int     `json:"count"`
	CostTotal      float64 `json:"cost_total"`
	BudgetTotal    float64 `json:"budget_total"`
	AvgMargin      float64 `json:"avg_margin"`
	PercentOfTotal float64 `json:"percent_of_total"`
}

// BudgetStatistics extends the summary with per-category and dispersion data.
type BudgetStatistics struct {
	BudgetSummary
	Categories   map[string]CategoryStats `json:"categories"`
	MinTotal     float64                  `json:"min_total"`
	MaxTotal     float64                  `json:"max_total"`
	MeanTotal    float64                  `json:"mean_total"`
	MedianTotal  float64                  `json:"median_total"`
	MinMargin    float64                  `json:"min_margin"`
	MaxMargin    float64                  `json:"max_margin"`
	MarginStdDev float64                  `json:"margin_std_dev"`
}

// Summarize reduces the collection to its headline figures. The weighted
// average margin relates total budget to total cost; a zero cost yields zero.
func Summarize(items []LineItem) BudgetSummary {
	s := BudgetSummary{TotalItems: len(items)}
	for _, it := range items {
		s.Budget += it.Subtotal()
		s.TotalCost += it.Cost * float64(it.Quantity)
	}
	if s.TotalCost > 0 {
		s.AvgMargin = (s.Budget - s.TotalCost) / s.TotalCost * 100
	}
	return s
}

// Statistics computes the extended statistics. Everything is recomputed from
// the live collection on every call; nothing is cached.
func Statistics(items []LineItem) BudgetStatistics {
	st := BudgetStatistics{
		BudgetSummary: Summarize(items),
		Categories:    make(map[string]CategoryStats),
	}
	if len(items) == 0 {
		return st
	}

	totals := make([]float64, 0, len(items))
	st.MinTotal = math.MaxFloat64
	st.MinMargin = math.MaxFloat64
	st.MaxMargin = -math.MaxFloat64

	var marginSum float64
	for _, it := range items {
		totals = append(totals, it.Total)
		st.MinTotal = math.Min(st.MinTotal, it.Total)
		st.MaxTotal = math.Max(st.MaxTotal, it.Total)
		st.MeanTotal += it.Total
		st.MinMargin = math.Min(st.MinMargin, it.Margin)
		st.MaxMargin = math.Max(st.MaxMargin, it.Margin)
		marginSum += it.Margin

		cs := st.Categories[it.Category]
		cs.Count++
		cs.CostTotal += it.Cost * float64(it.Quantity)
		cs.BudgetTotal += it.Subtotal()
		st.Categories[it.Category] = cs
	}
	st.MeanTotal /= float64(len(items))

	sort.Float64s(totals)
	mid := len(totals) / 2
	if len(totals)%2 == 0 {
		st.MedianTotal = (totals[mid-1] + totals[mid]) / 2
	} else {
		st.MedianTotal = totals[mid]
	}

	meanMargin := marginSum / float64(len(items))
	var variance float64
	for _, it := range items {
		d := it.Margin - meanMargin
		variance += d * d
	}
	st.MarginStdDev = math.Sqrt(variance / float64(len(items)))

	for cat, cs := range st.Categories {
		if cs.CostTotal > 0 {
			cs.AvgMargin = (cs.BudgetTotal - cs.CostTotal) / cs.CostTotal * 100
		}
		if st.Budget > 0 {
			cs.PercentOfTotal = cs.BudgetTotal / st.Budget * 100
		}
		st.Categories[cat] = cs
	}

	return st
}
