package services

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	items := []LineItem{
		{Quantity: 2, Cost: 100, Total: 125},
		{Quantity: 1, Cost: 50, Total: 60},
	}
	s := Summarize(items)

	if s.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", s.TotalItems)
	}
	if math.Abs(s.Budget-310) > tolerance {
		t.Errorf("Budget = %v, want 310", s.Budget)
	}
	if math.Abs(s.TotalCost-250) > tolerance {
		t.Errorf("TotalCost = %v, want 250", s.TotalCost)
	}
	if math.Abs(s.AvgMargin-24) > tolerance {
		t.Errorf("AvgMargin = %v, want 24", s.AvgMargin)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalItems != 0 || s.Budget != 0 || s.TotalCost != 0 || s.AvgMargin != 0 {
		t.Errorf("empty summary not zero: %+v", s)
	}
}

func TestSummarize_ZeroCost(t *testing.T) {
	s := Summarize([]LineItem{{Quantity: 1, Cost: 0, Total: 0}})
	if s.AvgMargin != 0 {
		t.Errorf("AvgMargin with zero cost = %v, want 0", s.AvgMargin)
	}
}

func TestStatistics_CategoryDistribution(t *testing.T) {
	items := []LineItem{
		{Category: "A", Quantity: 1, Cost: 80, Total: 100},
		{Category: "B", Quantity: 1, Cost: 150, Total: 200},
		{Category: "A", Quantity: 1, Cost: 250, Total: 300},
	}
	st := Statistics(items)

	a, ok := st.Categories["A"]
	if !ok {
		t.Fatal("missing category A")
	}
	if math.Abs(a.BudgetTotal-400) > tolerance {
		t.Errorf("A budget = %v, want 400", a.BudgetTotal)
	}
	if math.Abs(a.PercentOfTotal-66.6666666667) > 1e-6 {
		t.Errorf("A percent = %v, want ~66.67", a.PercentOfTotal)
	}

	b := st.Categories["B"]
	if math.Abs(b.BudgetTotal-200) > tolerance {
		t.Errorf("B budget = %v, want 200", b.BudgetTotal)
	}
	if math.Abs(b.PercentOfTotal-33.3333333333) > 1e-6 {
		t.Errorf("B percent = %v, want ~33.33", b.PercentOfTotal)
	}

	var percentSum float64
	for _, cs := range st.Categories {
		percentSum += cs.PercentOfTotal
	}
	if math.Abs(percentSum-100) > 1e-6 {
		t.Errorf("percentages sum to %v, want 100", percentSum)
	}
}

func TestStatistics_CategoryPartition(t *testing.T) {
	items := testItems()
	st := Statistics(items)

	var categorySum float64
	for _, cs := range st.Categories {
		categorySum += cs.BudgetTotal
	}
	if math.Abs(categorySum-st.Budget) > 1e-6 {
		t.Errorf("category budgets sum to %v, total budget is %v", categorySum, st.Budget)
	}
}

func TestStatistics_PriceRange(t *testing.T) {
	items := []LineItem{
		{Category: "x", Quantity: 1, Cost: 1, Total: 10, Margin: 10},
		{Category: "x", Quantity: 1, Cost: 1, Total: 20, Margin: 20},
		{Category: "x", Quantity: 1, Cost: 1, Total: 60, Margin: 30},
	}
	st := Statistics(items)

	if st.MinTotal != 10 || st.MaxTotal != 60 {
		t.Errorf("range = [%v, %v], want [10, 60]", st.MinTotal, st.MaxTotal)
	}
	if math.Abs(st.MeanTotal-30) > tolerance {
		t.Errorf("mean = %v, want 30", st.MeanTotal)
	}
	if st.MedianTotal != 20 {
		t.Errorf("median = %v, want 20", st.MedianTotal)
	}
}

func TestStatistics_MedianEvenCount(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, Cost: 1, Total: 10},
		{Quantity: 1, Cost: 1, Total: 20},
		{Quantity: 1, Cost: 1, Total: 30},
		{Quantity: 1, Cost: 1, Total: 40},
	}
	st := Statistics(items)
	if st.MedianTotal != 25 {
		t.Errorf("median = %v, want 25", st.MedianTotal)
	}
}

func TestStatistics_MarginDispersion(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, Cost: 1, Total: 1, Margin: 10},
		{Quantity: 1, Cost: 1, Total: 1, Margin: 20},
		{Quantity: 1, Cost: 1, Total: 1, Margin: 30},
	}
	st := Statistics(items)

	if st.MinMargin != 10 || st.MaxMargin != 30 {
		t.Errorf("margin range = [%v, %v], want [10, 30]", st.MinMargin, st.MaxMargin)
	}
	// Population standard deviation of {10, 20, 30}.
	want := math.Sqrt(200.0 / 3.0)
	if math.Abs(st.MarginStdDev-want) > 1e-9 {
		t.Errorf("margin stddev = %v, want %v", st.MarginStdDev, want)
	}
}

func TestStatistics_Empty(t *testing.T) {
	st := Statistics(nil)
	if len(st.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(st.Categories))
	}
	if st.MinTotal != 0 || st.MaxTotal != 0 || st.MedianTotal != 0 {
		t.Errorf("empty statistics not zero: %+v", st)
	}
}
