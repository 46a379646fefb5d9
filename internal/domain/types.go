package domain

import "fmt"

// ColumnCount is the number of cells a spreadsheet row must carry.
const ColumnCount = 6

// Column positions within a spreadsheet row.
const (
	ColTestID = iota
	ColSummary
	ColDescription
	ColAction
	ColData
	ColExpected
)

// RawRow is the cells of one spreadsheet row, in sheet order.
type RawRow []string

// ParsedRow is a validated and normalized spreadsheet row.
type ParsedRow struct {
	Index       int // 1-based position in the sheet
	TestID      int
	Summary     string
	Description string
	Action      string
	Data        string
	Expected    string
}

// Step returns the step carried by the row.
func (r ParsedRow) Step() StepRecord {
	return StepRecord{Action: r.Action, Data: r.Data, ExpectedResult: r.Expected}
}

// StepRecord is one action/data/expected-result triple of a Test.
type StepRecord struct {
	Action         string
	Data           string
	ExpectedResult string
}

// Test is a manual test case built from one or more spreadsheet rows.
type Test struct {
	ID               int
	Summary          string
	Description      string
	RepositoryFolder string
	ProjectKey       string
	Steps            []StepRecord
}

// Diagnostic reasons emitted by the row parser.
const (
	ReasonInvalidRow = "invalid row"
	ReasonMissingID  = "missing Test ID"
	ReasonInvalidID  = "invalid Test ID"
)

// Diagnostic describes a spreadsheet row that was skipped.
type Diagnostic struct {
	Row    int
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("row %d: %s", d.Row, d.Reason)
}

// GroupingMode selects how rows sharing a test id are merged into Tests.
type GroupingMode string

const (
	// GroupContiguous starts a new Test every time the id changes between
	// consecutive accepted rows.
	GroupContiguous GroupingMode = "contiguous"
	// GroupByID merges every row with the same id into the Test created on
	// its first occurrence.
	GroupByID GroupingMode = "by-id"
)

// Valid reports whether m is a known grouping mode.
func (m GroupingMode) Valid() bool {
	return m == GroupContiguous || m == GroupByID
}
