package grouper

import (
	"github.com/fjglira/xraysync/internal/domain"
)

// Grouper turns accepted spreadsheet rows into Tests.
type Grouper interface {
	Group(rows []domain.ParsedRow, fc domain.FeatureContext) GroupResult
}

// GroupResult is the outcome of grouping one sheet.
type GroupResult struct {
	Tests   []domain.Test
	Feature domain.FeatureContext // context after the last row
	Resets  int
}

// DefaultGrouper implements Grouper for a fixed GroupingMode.
type DefaultGrouper struct {
	mode domain.GroupingMode
}

// NewGrouper creates a new DefaultGrouper. Unknown modes fall back to
// domain.GroupContiguous.
func NewGrouper(mode domain.GroupingMode) *DefaultGrouper {
	if !mode.Valid() {
		mode = domain.GroupContiguous
	}
	return &DefaultGrouper{mode: mode}
}

// Mode returns the grouping mode in use.
func (g *DefaultGrouper) Mode() domain.GroupingMode {
	return g.mode
}

// foldState is threaded through the rows in sheet order. Row order is the
// only signal used to detect block boundaries.
type foldState struct {
	hasPrevious bool
	previousID  int
	feature     domain.FeatureContext
	folder      string
	current     int         // index in tests of the open Test, -1 if none
	byID        map[int]int // test id -> index in tests (by-id mode)
	tests       []domain.Test
	resets      int
}

// Group folds rows into Tests. A decrease of the test id between consecutive
// rows is a sequence reset: it moves to the next filename number and the new
// folder applies from that row on.
func (g *DefaultGrouper) Group(rows []domain.ParsedRow, fc domain.FeatureContext) GroupResult {
	s := foldState{
		feature: fc,
		folder:  fc.RepositoryFolder(),
		current: -1,
		byID:    make(map[int]int),
		tests:   []domain.Test{},
	}
	for _, row := range rows {
		s = g.step(s, row)
	}
	return GroupResult{Tests: s.tests, Feature: s.feature, Resets: s.resets}
}

func (g *DefaultGrouper) step(s foldState, row domain.ParsedRow) foldState {
	if s.hasPrevious && row.TestID < s.previousID {
		s.feature = s.feature.NextBlock()
		s.folder = s.feature.RepositoryFolder()
		s.resets++
	}

	switch g.mode {
	case domain.GroupByID:
		idx, ok := s.byID[row.TestID]
		if !ok {
			idx = len(s.tests)
			s.tests = append(s.tests, newTest(row, s.folder))
			s.byID[row.TestID] = idx
		}
		s.current = idx
	default:
		if !s.hasPrevious || row.TestID != s.previousID {
			s.current = len(s.tests)
			s.tests = append(s.tests, newTest(row, s.folder))
		}
	}

	s.tests[s.current].Steps = append(s.tests[s.current].Steps, row.Step())
	s.hasPrevious = true
	s.previousID = row.TestID
	return s
}

func newTest(row domain.ParsedRow, folder string) domain.Test {
	return domain.Test{
		ID:               row.TestID,
		Summary:          row.Summary,
		Description:      row.Description,
		RepositoryFolder: folder,
	}
}

// Finalize stamps the destination project key on every test.
func Finalize(tests []domain.Test, projectKey string) []domain.Test {
	for i := range tests {
		tests[i].ProjectKey = projectKey
	}
	return tests
}
