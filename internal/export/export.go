// Package export renders classified charge rows as delimited text for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/zombor/freight-audit/internal/charge"
)

// Subset names accepted by Subset, in report order
var Subsets = []string{"base_fuel", "accessorials", "adjustments", "excluded", "full_with_flags"}

var header = []string{"description", "amount", "category", "subcategory", "included", "exclusion_reason"}

// Subset returns the named row set from a bundle
func Subset(b charge.Bundle, name string) ([]charge.ChargeRow, error) {
	switch name {
	case "base_fuel":
		return b.BaseFuel, nil
	case "accessorials":
		return b.Accessorials, nil
	case "adjustments":
		return b.Adjustments, nil
	case "excluded":
		return b.Excluded, nil
	case "full_with_flags":
		return b.All, nil
	default:
		return nil, fmt.Errorf("unknown subset %q", name)
	}
}

// Filename is the download name for a subset
func Filename(name string) string {
	return name + ".csv"
}

// formatAmount writes cents with two decimals and never rounds away finer digits
func formatAmount(d decimal.Decimal) string {
	if d.Exponent() < -2 {
		return d.String()
	}
	return d.StringFixed(2)
}

// WriteCSV writes rows as UTF-8 CSV with a header row
func WriteCSV(w io.Writer, rows []charge.ChargeRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Description,
			formatAmount(r.Amount),
			string(r.Category),
			r.Subcategory,
			strconv.FormatBool(r.Included),
			string(r.ExclusionReason),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
