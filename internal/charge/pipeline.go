package charge

import "github.com/shopspring/decimal"

// zeroEpsilon is the magnitude below which an amount counts as zero
var zeroEpsilon = decimal.New(1, -8)

// Pass is a row-set policy. A pass returns a new slice and leaves its input untouched.
type Pass func(rows []ChargeRow) []ChargeRow

// DefaultPasses returns the row-set policies in the order they must run
func DefaultPasses() []Pass {
	return []Pass{SuppressDuplicates, ExcludeZeroAmounts, EnforceSingleBase}
}

// Pipeline classifies lines and applies row-set policies
type Pipeline struct {
	classifier *Classifier
	passes     []Pass
}

// NewPipeline creates a Pipeline over rules with the default passes
func NewPipeline(rules []Rule) *Pipeline {
	return NewPipelineWithPasses(NewClassifier(rules), DefaultPasses()...)
}

// NewPipelineWithPasses creates a Pipeline with explicit passes, for testing
func NewPipelineWithPasses(classifier *Classifier, passes ...Pass) *Pipeline {
	return &Pipeline{classifier: classifier, passes: passes}
}

// Run classifies lines in order, then applies every pass
func (p *Pipeline) Run(lines []Line) []ChargeRow {
	return p.Apply(p.classifier.ClassifyAll(lines))
}

// Apply runs the passes over already classified rows. Applying it to its own
// output changes nothing.
func (p *Pipeline) Apply(rows []ChargeRow) []ChargeRow {
	out := clone(rows)
	for _, pass := range p.passes {
		out = pass(out)
	}
	return out
}

type duplicateKey struct {
	category    Category
	subcategory string
	amount      string
}

// SuppressDuplicates excludes repeated fuel and accessorial rows that share
// category, subcategory and amount rounded to cents. The first occurrence is kept.
func SuppressDuplicates(rows []ChargeRow) []ChargeRow {
	out := clone(rows)
	seen := make(map[duplicateKey]bool)
	for i, row := range out {
		if !row.Included {
			continue
		}
		if row.Category != CategoryFuelSurcharge && row.Category != CategoryAccessorial {
			continue
		}
		key := duplicateKey{
			category:    row.Category,
			subcategory: row.Subcategory,
			amount:      row.Amount.Round(2).StringFixed(2),
		}
		if seen[key] {
			out[i] = row.Exclude(ReasonPossibleDuplicate)
			continue
		}
		seen[key] = true
	}
	return out
}

// ExcludeZeroAmounts excludes included rows whose amount is zero. Zero
// accessorials are reported as waived.
func ExcludeZeroAmounts(rows []ChargeRow) []ChargeRow {
	out := clone(rows)
	for i, row := range out {
		if !row.Included || row.Amount.Abs().GreaterThanOrEqual(zeroEpsilon) {
			continue
		}
		if row.Category == CategoryAccessorial {
			out[i] = row.Exclude(ReasonWaivedAccessorial)
		} else {
			out[i] = row.Exclude(ReasonZeroAmountExcluded)
		}
	}
	return out
}

// EnforceSingleBase keeps only the largest included base freight row. On a
// tie the earliest row wins.
func EnforceSingleBase(rows []ChargeRow) []ChargeRow {
	out := clone(rows)
	keep := -1
	for i, row := range out {
		if !row.Included || row.Category != CategoryBaseFreight {
			continue
		}
		if keep == -1 || row.Amount.GreaterThan(out[keep].Amount) {
			keep = i
		}
	}
	if keep == -1 {
		return out
	}
	for i, row := range out {
		if i != keep && row.Included && row.Category == CategoryBaseFreight {
			out[i] = row.Exclude(ReasonDuplicateBase)
		}
	}
	return out
}

func clone(rows []ChargeRow) []ChargeRow {
	return append(make([]ChargeRow, 0, len(rows)), rows...)
}
