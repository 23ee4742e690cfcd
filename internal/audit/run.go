package audit

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zombor/freight-audit/internal/charge"
)

// Run is the audit log record of one processed invoice
type Run struct {
	ID                string              `json:"id"`
	Filename          string              `json:"filename"`
	StoredPath        string              `json:"stored_path,omitempty"`
	ContentType       string              `json:"content_type"`
	FreightBillNumber string              `json:"freight_bill_number,omitempty"`
	StatedTotalDue    decimal.NullDecimal `json:"stated_total_due"`
	Variance          decimal.NullDecimal `json:"variance"` // stated total due minus grand_included
	Totals            charge.Totals       `json:"totals"`
	Counts            RowCounts           `json:"counts"`
	Rows              []charge.ChargeRow  `json:"rows"` // annotated rows as classified at upload
	CreatedAt         time.Time           `json:"created_at"`
}

// RowCounts summarizes how an invoice's rows were distributed
type RowCounts struct {
	Total        int `json:"total"`
	Included     int `json:"included"`
	Excluded     int `json:"excluded"`
	BaseFuel     int `json:"base_fuel"`
	Accessorials int `json:"accessorials"`
	Adjustments  int `json:"adjustments"`
}

// Result is what processing an invoice returns to callers
type Result struct {
	Run    *Run          `json:"run"`
	Bundle charge.Bundle `json:"bundle"`
}

func countRows(b charge.Bundle) RowCounts {
	return RowCounts{
		Total:        len(b.All),
		Included:     len(b.All) - len(b.Excluded),
		Excluded:     len(b.Excluded),
		BaseFuel:     len(b.BaseFuel),
		Accessorials: len(b.Accessorials),
		Adjustments:  len(b.Adjustments),
	}
}

func variance(stated decimal.NullDecimal, totals charge.Totals) decimal.NullDecimal {
	if !stated.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: stated.Decimal.Sub(totals.GrandIncluded), Valid: true}
}
