package scanning

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zombor/freight-audit/internal/charge"
)

var (
	freightBillPattern = regexp.MustCompile(`(?i)Freight\s*Bill\s*(?:No\.?|Number|#)\s*[:#]?\s*(\d+)`)
	totalDuePattern    = regexp.MustCompile(`(?i)Total\s*Amount\s*Due\s*[:]?\s*(\$?\s*[\d,]+\.\d{2})`)

	// A charge line is some text containing a letter, followed by a trailing amount
	lineItemPattern = regexp.MustCompile(`(?i)^(.*?[a-z].*?)\s+(\(?-?\$?\s?[\d,]*\d\.\d{2}\)?(?:\s?CR|-)?)$`)
	spaces          = regexp.MustCompile(`\s+`)
)

// ParseText extracts charge lines and header fields from invoice text. Lines
// keep the order they appear in; text lines without a trailing amount are skipped.
func ParseText(text string) *Document {
	doc := &Document{
		Lines: make([]charge.Line, 0),
	}

	if m := freightBillPattern.FindStringSubmatch(text); m != nil {
		doc.FreightBillNumber = m[1]
	}
	if m := totalDuePattern.FindStringSubmatch(text); m != nil {
		if amount, err := charge.ParseAmount(m[1]); err == nil {
			doc.TotalAmountDue = decimal.NullDecimal{Decimal: amount, Valid: true}
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		m := lineItemPattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		amount, err := charge.ParseAmount(m[2])
		if err != nil {
			slog.Debug("Dropping line with unreadable amount", "line", raw, "error", err)
			continue
		}
		doc.Lines = append(doc.Lines, charge.Line{
			Description: spaces.ReplaceAllString(strings.TrimSpace(m[1]), " "),
			Amount:      amount,
		})
	}

	return doc
}
