package parser_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/xraysync/internal/domain"
	"github.com/fjglira/xraysync/internal/parser"
)

var _ = Describe("RowParser", func() {
	var p *parser.RowParser

	BeforeEach(func() {
		p = parser.NewRowParser()
	})

	It("should normalize a valid row", func() {
		res := p.Parse([]domain.RawRow{{" 12 ", " Login ", "Desc ", " open app", "user=a ", " home shown "}})
		Expect(res.Diagnostics).To(BeEmpty())
		Expect(res.Rows).To(Equal([]domain.ParsedRow{{
			Index:       1,
			TestID:      12,
			Summary:     "Login",
			Description: "Desc",
			Action:      "open app",
			Data:        "user=a",
			Expected:    "home shown",
		}}))
	})

	It("should ignore cells past the sixth", func() {
		res := p.Parse([]domain.RawRow{{"1", "S", "D", "A", "Dat", "E", "extra"}})
		Expect(res.Rows).To(HaveLen(1))
		Expect(res.Rows[0].Expected).To(Equal("E"))
	})

	It("should turn empty cells into empty strings", func() {
		res := p.Parse([]domain.RawRow{{"3", "", "", "", "", ""}})
		Expect(res.Rows).To(HaveLen(1))
		Expect(res.Rows[0].Step()).To(Equal(domain.StepRecord{}))
	})

	DescribeTable("skipping malformed rows",
		func(row domain.RawRow, reason string) {
			res := p.Parse([]domain.RawRow{row})
			Expect(res.Rows).To(BeEmpty())
			Expect(res.Diagnostics).To(Equal([]domain.Diagnostic{{Row: 1, Reason: reason}}))
		},
		Entry("nil row", domain.RawRow(nil), domain.ReasonInvalidRow),
		Entry("fewer than 6 cells", domain.RawRow{"1", "S", "D", "A", "Dat"}, domain.ReasonInvalidRow),
		Entry("empty id", domain.RawRow{"", "S", "D", "A", "Dat", "E"}, domain.ReasonMissingID),
		Entry("blank id", domain.RawRow{"   ", "S", "D", "A", "Dat", "E"}, domain.ReasonMissingID),
		Entry("header row", domain.RawRow{"Test ID", "Summary", "Description", "Step", "Data", "Expected"}, domain.ReasonInvalidID),
		Entry("decimal id", domain.RawRow{"1.5", "S", "D", "A", "Dat", "E"}, domain.ReasonInvalidID),
		Entry("id with suffix", domain.RawRow{"7a", "S", "D", "A", "Dat", "E"}, domain.ReasonInvalidID),
	)

	It("should tag diagnostics with the 1-based row position and keep order", func() {
		res := p.Parse([]domain.RawRow{
			{"ID", "Summary", "Description", "Step", "Data", "Expected"},
			{"1", "S1", "", "A1", "", "E1"},
			{"1", "S1"},
			{"", "", "", "A", "", ""},
			{"2", "S2", "", "A2", "", "E2"},
		})
		Expect(res.Diagnostics).To(Equal([]domain.Diagnostic{
			{Row: 1, Reason: domain.ReasonInvalidID},
			{Row: 3, Reason: domain.ReasonInvalidRow},
			{Row: 4, Reason: domain.ReasonMissingID},
		}))
		Expect(res.Rows).To(HaveLen(2))
		Expect(res.Rows[0].Index).To(Equal(2))
		Expect(res.Rows[1].Index).To(Equal(5))
	})

	It("should return an empty, non-nil row slice for empty input", func() {
		res := p.Parse(nil)
		Expect(res.Rows).ToNot(BeNil())
		Expect(res.Rows).To(BeEmpty())
		Expect(res.Diagnostics).To(BeEmpty())
	})

	It("should stream rows through Each with nil callbacks allowed", func() {
		var ids []int
		p.Each([]domain.RawRow{
			{"4", "", "", "", "", ""},
			{"x", "", "", "", "", ""},
			{"2", "", "", "", "", ""},
		}, func(r domain.ParsedRow) { ids = append(ids, r.TestID) }, nil)
		Expect(ids).To(Equal([]int{4, 2}))
	})

	It("should accept negative and signed ids like any base-10 integer", func() {
		res := p.Parse([]domain.RawRow{{"+3", "", "", "", "", ""}, {"-1", "", "", "", "", ""}})
		Expect(res.Rows).To(HaveLen(2))
		Expect(res.Rows[0].TestID).To(Equal(3))
		Expect(res.Rows[1].TestID).To(Equal(-1))
	})
})
