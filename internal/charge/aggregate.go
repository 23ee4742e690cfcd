package charge

import "github.com/shopspring/decimal"

// Totals are the per-bucket sums of included rows, each rounded to cents
type Totals struct {
	Base          decimal.Decimal `json:"base"`
	Fuel          decimal.Decimal `json:"fuel"`
	Accessorials  decimal.Decimal `json:"accessorials"`
	Adjustments   decimal.Decimal `json:"adjustments"`
	GrandIncluded decimal.Decimal `json:"grand_included"`
}

// Map returns the totals keyed by their report names
func (t Totals) Map() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"base":           t.Base,
		"fuel":           t.Fuel,
		"accessorials":   t.Accessorials,
		"adjustments":    t.Adjustments,
		"grand_included": t.GrandIncluded,
	}
}

// Bundle is the result of aggregating one invoice's rows. The four subsets
// partition All.
type Bundle struct {
	BaseFuel     []ChargeRow `json:"base_fuel"`
	Accessorials []ChargeRow `json:"accessorials"`
	Adjustments  []ChargeRow `json:"adjustments"`
	Excluded     []ChargeRow `json:"excluded"`
	Totals       Totals      `json:"totals"`
	All          []ChargeRow `json:"full_with_flags"`
}

// Aggregate partitions rows into report subsets and computes totals.
// Included tax and other rows are reported with adjustments so that every
// included row lands in exactly one subset.
func Aggregate(rows []ChargeRow) Bundle {
	b := Bundle{
		BaseFuel:     make([]ChargeRow, 0),
		Accessorials: make([]ChargeRow, 0),
		Adjustments:  make([]ChargeRow, 0),
		Excluded:     make([]ChargeRow, 0),
		All:          clone(rows),
	}

	base, fuel, acc, adj := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, row := range b.All {
		if !row.Included {
			b.Excluded = append(b.Excluded, row)
			continue
		}
		switch row.Category {
		case CategoryBaseFreight:
			b.BaseFuel = append(b.BaseFuel, row)
			base = base.Add(row.Amount)
		case CategoryFuelSurcharge:
			b.BaseFuel = append(b.BaseFuel, row)
			fuel = fuel.Add(row.Amount)
		case CategoryAccessorial:
			b.Accessorials = append(b.Accessorials, row)
			acc = acc.Add(row.Amount)
		case CategoryAdjustment, CategoryTaxFee, CategoryOther:
			b.Adjustments = append(b.Adjustments, row)
			adj = adj.Add(row.Amount)
		}
	}

	b.Totals = Totals{
		Base:         base.Round(2),
		Fuel:         fuel.Round(2),
		Accessorials: acc.Round(2),
		Adjustments:  adj.Round(2),
	}
	b.Totals.GrandIncluded = b.Totals.Base.
		Add(b.Totals.Fuel).
		Add(b.Totals.Accessorials).
		Add(b.Totals.Adjustments)
	return b
}
