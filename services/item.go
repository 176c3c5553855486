package services

// Default field values applied to imported or partially filled lines.
const (
	DefaultQuantity     = 1
	DefaultPresentation = "UNIDAD"
	DefaultCategory     = "otros"
)

// LineItem is one priced product row in the budget.
type LineItem struct {
	ID           string           `json:"id"`
	Index        int              `json:"index"`
	Name         string           `json:"name"`
	Presentation string           `json:"presentation"`
	Category     string           `json:"category"`
	Quantity     int              `json:"quantity"`
	Cost         float64          `json:"cost"`
	Margin       float64          `json:"margin"`
	Total        float64          `json:"total"`
	Taxes        []TaxRate        `json:"taxes,omitempty"`
	Extras       []AdditionalCost `json:"extras,omitempty"`
}

// Subtotal is the line's contribution to the aggregate budget.
func (it LineItem) Subtotal() float64 {
	return it.Total * float64(it.Quantity)
}

// Normalize coerces missing or out-of-range fields to their defaults so a row
// built from external data is safe to hand to the pricing functions.
func (it *LineItem) Normalize() {
	if it.Quantity < 1 {
		it.Quantity = DefaultQuantity
	}
	if it.Presentation == "" {
		it.Presentation = DefaultPresentation
	}
	if it.Category == "" {
		it.Category = DefaultCategory
	}
	if it.Cost < 0 {
		it.Cost = 0
	}
	if it.Margin < 0 {
		it.Margin = 0
	}
}

// Recompute re-derives Total from the line's own cost, margin, taxes and
// additional costs. A persisted or imported total is never trusted directly.
func (it *LineItem) Recompute() {
	it.Total = ComposeTotal(it.Cost, it.Margin, it.Taxes, it.Extras)
}

// BudgetTotal sums subtotal over the collection using live totals.
func BudgetTotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Subtotal()
	}
	return sum
}
