package charge

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Predicate reports whether a rule applies to a trimmed description and amount
type Predicate func(description string, amount decimal.Decimal) bool

// Rule maps a predicate to a category. A non-empty Reason marks matching rows
// as excluded.
type Rule struct {
	Name        string
	Category    Category
	Subcategory string
	Reason      ExclusionReason
	Match       Predicate
}

// PatternRule builds a rule that matches descriptions against a case-insensitive regexp
func PatternRule(name string, category Category, subcategory string, pattern string) Rule {
	re := regexp.MustCompile(`(?i)` + pattern)
	return Rule{
		Name:        name,
		Category:    category,
		Subcategory: subcategory,
		Match: func(description string, _ decimal.Decimal) bool {
			return re.MatchString(description)
		},
	}
}

// ExcludingRule is a PatternRule whose matches are excluded with reason
func ExcludingRule(name string, reason ExclusionReason, pattern string) Rule {
	r := PatternRule(name, CategoryOther, "", pattern)
	r.Reason = reason
	return r
}

// Either combines two predicates
func Either(a, b Predicate) Predicate {
	return func(description string, amount decimal.Decimal) bool {
		return a(description, amount) || b(description, amount)
	}
}

// NegativeAmount matches any line with an amount strictly below zero
func NegativeAmount(_ string, amount decimal.Decimal) bool {
	return amount.IsNegative()
}

const (
	summaryPattern     = `\b(sub\s*-?\s*total|total|amount\s+due|balance(\s+due)?|please\s+pay)\b`
	infoPattern        = `\b(tariff|zone\s*(code)?\s*[:#]|zone\s+code|(weight|density)\s*(note|notes|:)|density|terminal\s+inspection|inspected\s+at\s+terminal)`
	fuelPattern        = `\bfuel|\bfsc\b`
	taxPattern         = `\b(tax|taxes|gst|hst|pst|qst|vat)\b`
	adjustmentPattern  = `\b(discount|credit|adjustment|adj\.?|rebate|allowance|refund|write[\s-]?off)\b`
	baseFreightPattern = `\b(base(\s+(rate|charge|freight))?|freight\s+charges?|line\s*-?\s*haul|store\s+fixtures?)\b`
)

// accessorials lists the accessorial lexicon in match priority order
var accessorials = []struct {
	label   string
	pattern string
}{
	{"residential_delivery", `residential|\bresi\b`},
	{"liftgate", `lift\s*-?\s*gate`},
	{"limited_access", `limited\s+access`},
	{"appointment", `appointment|\bappt\b`},
	{"inside_delivery", `inside\s+(delivery|pickup)`},
	{"redelivery", `\bre-?\s*delivery|\bredel\b`},
	{"reweigh", `\bre-?\s*weigh`},
	{"reclass", `\bre-?\s*class`},
	{"overlength", `over\s*-?\s*length|excessive\s+length`},
	{"hazmat", `haz\s*-?\s*mat|hazardous`},
	{"detention", `detention`},
	{"storage", `storage`},
	{"correction_fee", `correction`},
	{"weight_validation_fee", `weight\s+(validation|verification)`},
}

// DefaultRules returns the ordered freight rule table. Order is significant:
// the first matching rule decides the category.
func DefaultRules() []Rule {
	adjustment := PatternRule("adjustment", CategoryAdjustment, "credit_or_discount", adjustmentPattern)
	adjustment.Match = Either(adjustment.Match, NegativeAmount)

	rules := []Rule{
		ExcludingRule("summary_line", ReasonSummaryLine, summaryPattern),
		ExcludingRule("info_note", ReasonInfoNote, infoPattern),
		PatternRule("fuel_surcharge", CategoryFuelSurcharge, "fuel", fuelPattern),
		PatternRule("tax", CategoryTaxFee, "tax", taxPattern),
		adjustment,
		PatternRule("base_freight", CategoryBaseFreight, "base", baseFreightPattern),
	}
	for _, a := range accessorials {
		rules = append(rules, PatternRule(a.label, CategoryAccessorial, a.label, a.pattern))
	}
	return rules
}
