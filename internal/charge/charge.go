package charge

import "github.com/shopspring/decimal"

// Category is the semantic bucket a charge line belongs to
type Category string

const (
	CategoryBaseFreight   Category = "base_freight"
	CategoryFuelSurcharge Category = "fuel_surcharge"
	CategoryAccessorial   Category = "accessorial"
	CategoryAdjustment    Category = "adjustment"
	CategoryTaxFee        Category = "tax_fee"
	CategoryOther         Category = "other"
)

// ExclusionReason explains why a row does not contribute to totals
type ExclusionReason string

const (
	ReasonSummaryLine        ExclusionReason = "summary_line"
	ReasonInfoNote           ExclusionReason = "info_note"
	ReasonPossibleDuplicate  ExclusionReason = "possible_duplicate"
	ReasonWaivedAccessorial  ExclusionReason = "waived_accessorial"
	ReasonZeroAmountExcluded ExclusionReason = "zero_amount_excluded"
	ReasonDuplicateBase      ExclusionReason = "duplicate_base"
)

// Line is a raw (description, amount) pair as produced by an extractor
type Line struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewLine builds a Line from a float amount
func NewLine(description string, amount float64) Line {
	return Line{Description: description, Amount: decimal.NewFromFloat(amount)}
}

// ChargeRow is a classified invoice line
type ChargeRow struct {
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Category        Category        `json:"category"`
	Subcategory     string          `json:"subcategory"`
	Included        bool            `json:"included"`
	ExclusionReason ExclusionReason `json:"exclusion_reason,omitempty"`
}

// Exclude returns a copy of the row marked as excluded for the given reason
func (r ChargeRow) Exclude(reason ExclusionReason) ChargeRow {
	r.Included = false
	r.ExclusionReason = reason
	return r
}
