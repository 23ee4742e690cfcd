package charge

import "strings"

// Classifier assigns categories to lines using an ordered rule table
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier over rules, evaluated in slice order
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the classifier's rule table
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify turns a raw line into a ChargeRow. It never fails: lines that no
// rule matches are included under CategoryOther.
func (c *Classifier) Classify(line Line) ChargeRow {
	row := ChargeRow{
		Description: strings.TrimSpace(line.Description),
		Amount:      line.Amount,
		Category:    CategoryOther,
		Included:    true,
	}

	for _, rule := range c.rules {
		if rule.Match == nil || !rule.Match(row.Description, row.Amount) {
			continue
		}
		row.Category = rule.Category
		row.Subcategory = rule.Subcategory
		if rule.Reason != "" {
			row = row.Exclude(rule.Reason)
		}
		return row
	}
	return row
}

// ClassifyAll classifies every line, preserving order
func (c *Classifier) ClassifyAll(lines []Line) []ChargeRow {
	rows := make([]ChargeRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, c.Classify(line))
	}
	return rows
}
