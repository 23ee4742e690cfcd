package charge

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pipeline", func() {
	var pipeline *Pipeline

	BeforeEach(func() {
		pipeline = NewPipeline(DefaultRules())
	})

	Describe("SuppressDuplicates", func() {
		It("keeps the first of two identical accessorials", func() {
			out := SuppressDuplicates([]ChargeRow{
				row("Liftgate", "45.00", CategoryAccessorial, "liftgate"),
				row("Liftgate", "45.00", CategoryAccessorial, "liftgate"),
			})
			Expect(out[0].Included).To(BeTrue())
			Expect(out[1].Included).To(BeFalse())
			Expect(out[1].ExclusionReason).To(Equal(ReasonPossibleDuplicate))
		})

		It("compares amounts rounded to cents", func() {
			out := SuppressDuplicates([]ChargeRow{
				row("Fuel", "120.001", CategoryFuelSurcharge, "fuel"),
				row("FUEL SURCHG", "119.999", CategoryFuelSurcharge, "fuel"),
			})
			Expect(out[1].ExclusionReason).To(Equal(ReasonPossibleDuplicate))
		})

		It("keeps accessorials with different amounts or labels", func() {
			out := SuppressDuplicates([]ChargeRow{
				row("Liftgate", "45.00", CategoryAccessorial, "liftgate"),
				row("Liftgate", "50.00", CategoryAccessorial, "liftgate"),
				row("Storage", "45.00", CategoryAccessorial, "storage"),
			})
			for _, r := range out {
				Expect(r.Included).To(BeTrue())
			}
		})

		It("does not deduplicate base freight or adjustments", func() {
			out := SuppressDuplicates([]ChargeRow{
				row("Linehaul", "500.00", CategoryBaseFreight, "base"),
				row("Linehaul", "500.00", CategoryBaseFreight, "base"),
				row("Discount", "-20.00", CategoryAdjustment, "credit_or_discount"),
				row("Discount", "-20.00", CategoryAdjustment, "credit_or_discount"),
			})
			for _, r := range out {
				Expect(r.Included).To(BeTrue())
			}
		})

		It("ignores rows that are already excluded", func() {
			out := SuppressDuplicates([]ChargeRow{
				row("Liftgate", "45.00", CategoryAccessorial, "liftgate").Exclude(ReasonWaivedAccessorial),
				row("Liftgate", "45.00", CategoryAccessorial, "liftgate"),
			})
			Expect(out[0].ExclusionReason).To(Equal(ReasonWaivedAccessorial))
			Expect(out[1].Included).To(BeTrue())
		})

		It("does not modify its input", func() {
			in := []ChargeRow{
				row("Liftgate", "45.00", CategoryAccessorial, "liftgate"),
				row("Liftgate", "45.00", CategoryAccessorial, "liftgate"),
			}
			SuppressDuplicates(in)
			Expect(in[1].Included).To(BeTrue())
		})
	})

	Describe("ExcludeZeroAmounts", func() {
		It("marks zero accessorials as waived", func() {
			out := ExcludeZeroAmounts([]ChargeRow{row("Liftgate", "0.00", CategoryAccessorial, "liftgate")})
			Expect(out[0].Included).To(BeFalse())
			Expect(out[0].ExclusionReason).To(Equal(ReasonWaivedAccessorial))
		})

		It("marks other zero rows as zero amount", func() {
			out := ExcludeZeroAmounts([]ChargeRow{row("Linehaul", "0", CategoryBaseFreight, "base")})
			Expect(out[0].ExclusionReason).To(Equal(ReasonZeroAmountExcluded))
		})

		It("treats amounts below the epsilon as zero", func() {
			out := ExcludeZeroAmounts([]ChargeRow{row("Misc", "0.000000001", CategoryOther, "")})
			Expect(out[0].ExclusionReason).To(Equal(ReasonZeroAmountExcluded))
		})

		It("keeps small non-zero amounts", func() {
			out := ExcludeZeroAmounts([]ChargeRow{row("Misc", "0.01", CategoryOther, "")})
			Expect(out[0].Included).To(BeTrue())
		})

		It("does not re-label already excluded rows", func() {
			out := ExcludeZeroAmounts([]ChargeRow{
				row("Subtotal", "0", CategoryOther, "").Exclude(ReasonSummaryLine),
			})
			Expect(out[0].ExclusionReason).To(Equal(ReasonSummaryLine))
		})
	})

	Describe("EnforceSingleBase", func() {
		It("keeps only the largest base row", func() {
			out := EnforceSingleBase([]ChargeRow{
				row("Base", "100.00", CategoryBaseFreight, "base"),
				row("Linehaul", "250.00", CategoryBaseFreight, "base"),
				row("Freight Charge", "80.00", CategoryBaseFreight, "base"),
			})
			Expect(out[0].ExclusionReason).To(Equal(ReasonDuplicateBase))
			Expect(out[1].Included).To(BeTrue())
			Expect(out[2].ExclusionReason).To(Equal(ReasonDuplicateBase))
		})

		It("keeps the earliest row on a tie", func() {
			out := EnforceSingleBase([]ChargeRow{
				row("Base", "250.00", CategoryBaseFreight, "base"),
				row("Linehaul", "250.00", CategoryBaseFreight, "base"),
			})
			Expect(out[0].Included).To(BeTrue())
			Expect(out[1].ExclusionReason).To(Equal(ReasonDuplicateBase))
		})

		It("only considers included rows", func() {
			out := EnforceSingleBase([]ChargeRow{
				row("Base", "900.00", CategoryBaseFreight, "base").Exclude(ReasonZeroAmountExcluded),
				row("Linehaul", "250.00", CategoryBaseFreight, "base"),
			})
			Expect(out[0].ExclusionReason).To(Equal(ReasonZeroAmountExcluded))
			Expect(out[1].Included).To(BeTrue())
		})

		It("leaves sets without base rows alone", func() {
			in := []ChargeRow{row("Liftgate", "45.00", CategoryAccessorial, "liftgate")}
			Expect(EnforceSingleBase(in)).To(Equal(in))
		})
	})

	Describe("Run", func() {
		It("runs zero exclusion after duplicate suppression", func() {
			rows := pipeline.Run([]Line{
				line("Liftgate", "0.00"),
				line("Liftgate", "0.00"),
			})
			Expect(rows[0].ExclusionReason).To(Equal(ReasonWaivedAccessorial))
			Expect(rows[1].ExclusionReason).To(Equal(ReasonPossibleDuplicate))
		})

		It("excludes a zero base before choosing the single base", func() {
			rows := pipeline.Run([]Line{
				line("Linehaul", "0.00"),
				line("Base Rate", "300.00"),
			})
			Expect(rows[0].ExclusionReason).To(Equal(ReasonZeroAmountExcluded))
			Expect(rows[1].Included).To(BeTrue())
		})

		It("preserves input order", func() {
			rows := pipeline.Run([]Line{
				line("Subtotal", "10"),
				line("Linehaul", "10"),
				line("Liftgate", "10"),
			})
			Expect(rows).To(HaveLen(3))
			Expect(rows[0].Description).To(Equal("Subtotal"))
			Expect(rows[1].Description).To(Equal("Linehaul"))
			Expect(rows[2].Description).To(Equal("Liftgate"))
		})

		It("returns an empty result for no lines", func() {
			Expect(pipeline.Run(nil)).To(BeEmpty())
		})
	})

	Describe("Apply", func() {
		It("is idempotent on its own output", func() {
			first := pipeline.Run([]Line{
				line("Linehaul", "500.00"),
				line("Base", "100.00"),
				line("FUEL SURCHG", "120.00"),
				line("FUEL SURCHG", "120.00"),
				line("Liftgate", "45.00"),
				line("Liftgate", "45.00"),
				line("Liftgate", "0.00"),
				line("Discount", "-20.00"),
				line("Subtotal", "645.00"),
				line("Tariff 100", "1.00"),
			})
			second := pipeline.Apply(first)
			Expect(second).To(Equal(first))
		})

		It("runs the configured passes only", func() {
			p := NewPipelineWithPasses(NewClassifier(DefaultRules()), ExcludeZeroAmounts)
			rows := p.Run([]Line{line("Liftgate", "45.00"), line("Liftgate", "45.00")})
			Expect(rows[1].Included).To(BeTrue())
		})
	})
})
