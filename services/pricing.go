// Package services provides the pricing, adjustment, aggregation and
// workbook-export logic for budget line items.
package services

// TaxRate is a percentage tax attached to a line item. Disabled entries are
// kept on the item and filtered at composition time, not deleted.
type TaxRate struct {
	Kind    string  `json:"kind"`
	Rate    float64 `json:"rate"`
	Enabled bool    `json:"enabled"`
}

// AdditionalCost is a flat currency amount added after taxes.
type AdditionalCost struct {
	Kind    string  `json:"kind"`
	Value   float64 `json:"value"`
	Enabled bool    `json:"enabled"`
}

// ComposeTotal derives the unit sale price from cost, margin, enabled taxes
// and enabled additional costs. The composition order is fixed:
//
//  1. apply margin to cost
//  2. apply the additive sum of enabled tax rates (no compounding)
//  3. add enabled flat costs (never taxed)
//
// A cost of zero or less yields zero, so malformed lines cannot propagate
// negative prices.
func ComposeTotal(cost, marginPct float64, taxes []TaxRate, extras []AdditionalCost) float64 {
	if cost <= 0 {
		return 0
	}

	withMargin := cost * (1 + marginPct/100)

	var taxRateSum float64
	for _, t := range taxes {
		if t.Enabled {
			taxRateSum += t.Rate
		}
	}
	withTaxes := withMargin * (1 + taxRateSum/100)

	total := withTaxes
	for _, c := range extras {
		if c.Enabled {
			total += c.Value
		}
	}
	return total
}

// SolveMargin derives the implied margin percentage from a unit total and its
// cost. It is the exact inverse of the margin step of ComposeTotal only when
// no taxes or additional costs are involved; after a proportional scaling the
// solved margin deliberately folds the scaling into the reported percentage.
func SolveMargin(total, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return ((total - cost) / cost) * 100
}
