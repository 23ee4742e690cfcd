package tabular

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MapColumns", func() {
	DescribeTable("finding columns",
		func(header []string, desc int, amount int) {
			d, a, err := MapColumns(header)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(desc))
			Expect(a).To(Equal(amount))
		},
		Entry("plain names", []string{"Description", "Amount"}, 0, 1),
		Entry("carrier export", []string{"Invoice #", "Type", "Billed Amount"}, 1, 2),
		Entry("snake case", []string{"freight_bill_number", "type", "billed_amount"}, 1, 2),
		Entry("amount first", []string{"Amount", "Charge Description", "Pro"}, 1, 0),
		Entry("substring hints", []string{"Pro #", "Accessorial Service Code", "Amount (USD)"}, 1, 2),
		Entry("two unnamed columns", []string{"col1", "col2"}, 0, 1),
	)

	When("nothing matches", func() {
		It("returns an InputShapeError", func() {
			_, _, err := MapColumns([]string{"Pro", "Date", "Weight"})
			var shapeErr *InputShapeError
			Expect(errors.As(err, &shapeErr)).To(BeTrue())
			Expect(shapeErr.Columns).To(Equal([]string{"Pro", "Date", "Weight"}))
			Expect(err.Error()).To(ContainSubstring("Weight"))
		})
	})

	When("only an amount column exists", func() {
		It("returns an InputShapeError", func() {
			_, _, err := MapColumns([]string{"Pro", "Date", "Amount"})
			Expect(err).To(BeAssignableToTypeOf(&InputShapeError{}))
		})
	})
})

var _ = Describe("Lines", func() {
	It("maps records to lines in order", func() {
		lines, err := Lines([]string{"Description", "Amount"}, [][]string{
			{"Linehaul", "500.00"},
			{"Fuel Surcharge", "$120.00"},
			{"Discount", "(20.00)"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(HaveLen(3))
		Expect(lines[1].Description).To(Equal("Fuel Surcharge"))
		Expect(lines[1].Amount.StringFixed(2)).To(Equal("120.00"))
		Expect(lines[2].Amount.StringFixed(2)).To(Equal("-20.00"))
	})

	It("defaults a blank amount to zero", func() {
		lines, err := Lines([]string{"Description", "Amount"}, [][]string{{"Liftgate", ""}, {"Storage"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(HaveLen(2))
		Expect(lines[0].Amount.IsZero()).To(BeTrue())
		Expect(lines[1].Amount.IsZero()).To(BeTrue())
	})

	It("drops records with unreadable amounts", func() {
		lines, err := Lines([]string{"Description", "Amount"}, [][]string{{"Liftgate", "n/a"}, {"Linehaul", "10"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(HaveLen(1))
		Expect(lines[0].Description).To(Equal("Linehaul"))
	})

	It("skips blank records", func() {
		lines, err := Lines([]string{"Description", "Amount"}, [][]string{{"", " "}, {}})
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(BeEmpty())
	})

	It("fails on an unrecognised header", func() {
		_, err := Lines([]string{"a", "b", "c"}, nil)
		Expect(err).To(BeAssignableToTypeOf(&InputShapeError{}))
	})
})
