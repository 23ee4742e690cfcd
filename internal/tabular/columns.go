package tabular

import (
	"fmt"
	"regexp"
	"strings"
)

// InputShapeError is returned when no description and amount columns can be found
type InputShapeError struct {
	Columns []string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("cannot find description and amount columns in %q", e.Columns)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Exact column names, compared after normalization, in preference order
var (
	descriptionAliases = []string{
		"description", "desc", "charge description", "charge desc", "charge", "charge type",
		"charge code description", "type", "item", "line item", "line description", "service", "accessorial",
	}
	amountAliases = []string{
		"amount", "billed amount", "charge amount", "amt", "billed", "net amount", "line amount",
		"extended amount", "total charge", "charges", "cost", "price",
	}
)

// Substring hints used when no alias matches exactly
var (
	descriptionHints = []string{"desc", "charge", "type", "item", "service"}
	amountHints      = []string{"amount", "amt", "billed", "cost", "price", "usd"}
)

func normalizeColumn(name string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(name), " "))
}

// MapColumns finds the description and amount columns in a header row.
// Exact aliases win over substring hints; a two-column sheet falls back to
// (description, amount) positionally.
func MapColumns(header []string) (descIdx int, amountIdx int, err error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeColumn(h)
	}

	amountIdx = findColumn(normalized, amountAliases, amountHints, -1)
	descIdx = findColumn(normalized, descriptionAliases, descriptionHints, amountIdx)
	if descIdx >= 0 && amountIdx >= 0 {
		return descIdx, amountIdx, nil
	}

	if len(header) == 2 {
		return 0, 1, nil
	}
	return -1, -1, &InputShapeError{Columns: header}
}

func findColumn(columns []string, aliases []string, hints []string, skip int) int {
	for _, alias := range aliases {
		for i, c := range columns {
			if i != skip && c == alias {
				return i
			}
		}
	}
	for _, hint := range hints {
		for i, c := range columns {
			if i != skip && strings.Contains(c, hint) {
				return i
			}
		}
	}
	return -1
}
