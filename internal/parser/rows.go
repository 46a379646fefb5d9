package parser

import (
	"strconv"
	"strings"

	"github.com/fjglira/xraysync/internal/domain"
)

// ParseResult holds the accepted rows of a sheet and the reasons the others
// were skipped.
type ParseResult struct {
	Rows        []domain.ParsedRow
	Diagnostics []domain.Diagnostic
}

// RowParser validates raw sheet rows and normalizes them into ParsedRows.
// It never fails: malformed rows are dropped and reported as diagnostics.
type RowParser struct{}

// NewRowParser creates a new RowParser.
func NewRowParser() *RowParser {
	return &RowParser{}
}

// Parse validates every row, keeping sheet order.
func (p *RowParser) Parse(rows []domain.RawRow) ParseResult {
	res := ParseResult{Rows: []domain.ParsedRow{}}
	p.Each(rows, func(row domain.ParsedRow) {
		res.Rows = append(res.Rows, row)
	}, func(d domain.Diagnostic) {
		res.Diagnostics = append(res.Diagnostics, d)
	})
	return res
}

// Each streams the accepted rows to accept and the skipped ones to reject,
// in sheet order. Either callback may be nil.
func (p *RowParser) Each(rows []domain.RawRow, accept func(domain.ParsedRow), reject func(domain.Diagnostic)) {
	for i, raw := range rows {
		row, reason := parseRow(i+1, raw)
		if reason != "" {
			if reject != nil {
				reject(domain.Diagnostic{Row: i + 1, Reason: reason})
			}
			continue
		}
		if accept != nil {
			accept(row)
		}
	}
}

// parseRow returns the normalized row, or the reason it was rejected.
func parseRow(index int, raw domain.RawRow) (domain.ParsedRow, string) {
	if len(raw) < domain.ColumnCount {
		return domain.ParsedRow{}, domain.ReasonInvalidRow
	}

	rawID := strings.TrimSpace(raw[domain.ColTestID])
	if rawID == "" {
		return domain.ParsedRow{}, domain.ReasonMissingID
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return domain.ParsedRow{}, domain.ReasonInvalidID
	}

	return domain.ParsedRow{
		Index:       index,
		TestID:      id,
		Summary:     strings.TrimSpace(raw[domain.ColSummary]),
		Description: strings.TrimSpace(raw[domain.ColDescription]),
		Action:      strings.TrimSpace(raw[domain.ColAction]),
		Data:        strings.TrimSpace(raw[domain.ColData]),
		Expected:    strings.TrimSpace(raw[domain.ColExpected]),
	}, ""
}
