package tabular

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zombor/freight-audit/internal/charge"
)

// Lines maps tabular records onto charge lines. A blank amount counts as zero,
// an unreadable amount drops the record, and fully blank records are skipped.
func Lines(header []string, records [][]string) ([]charge.Line, error) {
	descIdx, amountIdx, err := MapColumns(header)
	if err != nil {
		return nil, err
	}

	lines := make([]charge.Line, 0, len(records))
	for i, record := range records {
		description := strings.TrimSpace(cell(record, descIdx))
		rawAmount := strings.TrimSpace(cell(record, amountIdx))
		if description == "" && rawAmount == "" {
			continue
		}

		amount := decimal.Zero
		if rawAmount != "" {
			amount, err = charge.ParseAmount(rawAmount)
			if err != nil {
				slog.Debug("Dropping row with unreadable amount", "row", i+1, "amount", rawAmount)
				continue
			}
		}
		lines = append(lines, charge.Line{Description: description, Amount: amount})
	}
	return lines, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
