package charge

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a string cannot be read as a currency amount
var ErrInvalidAmount = errors.New("invalid amount")

var amountNoise = regexp.MustCompile(`[$\s,]`)

// ParseAmount reads a currency string such as "$1,234.50", "(20.00)", "20.00-"
// or "20.00 CR". Parentheses, a leading or trailing minus and a CR suffix all
// mean a negative amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	negative := false
	if strings.HasSuffix(s, "CR") {
		negative = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "CR"))
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = amountNoise.ReplaceAllString(s, "")
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")

	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
