package xray

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/fjglira/xraysync/internal/domain"
)

// DefaultTestType is the Xray test type used for spreadsheet tests.
const DefaultTestType = "Manual"

// TestIssue is one entry of the Xray test-import payload.
type TestIssue struct {
	TestType         string   `json:"testtype,omitempty"`
	Fields           Fields   `json:"fields"`
	Steps            []Step   `json:"steps"`
	RepositoryFolder string   `json:"xray_test_repository_folder"`
	TestSets         []string `json:"xray_test_sets"`
}

// Fields holds the Jira issue fields of a test.
type Fields struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Project     Project   `json:"project"`
	IssueType   IssueType `json:"issuetype"`
}

type Project struct {
	Key string `json:"key"`
}

type IssueType struct {
	Name string `json:"name"`
}

// Step is a manual test step.
type Step struct {
	Action string `json:"action"`
	Data   string `json:"data"`
	Result string `json:"result"`
}

// FromTests maps grouped tests onto the import payload, preserving order.
// An empty testType defaults to DefaultTestType.
func FromTests(tests []domain.Test, testType string) []TestIssue {
	if testType == "" {
		testType = DefaultTestType
	}
	issues := make([]TestIssue, 0, len(tests))
	for _, t := range tests {
		steps := make([]Step, 0, len(t.Steps))
		for _, s := range t.Steps {
			steps = append(steps, Step{Action: s.Action, Data: s.Data, Result: s.ExpectedResult})
		}
		issues = append(issues, TestIssue{
			TestType: testType,
			Fields: Fields{
				Summary:     t.Summary,
				Description: t.Description,
				Project:     Project{Key: t.ProjectKey},
				IssueType:   IssueType{Name: "Test"},
			},
			Steps:            steps,
			RepositoryFolder: t.RepositoryFolder,
			TestSets:         []string{},
		})
	}
	return issues
}

// Encode writes the payload as an indented JSON list. HTML characters are
// kept verbatim since step text often contains <, > and &.
func Encode(w io.Writer, issues []TestIssue) error {
	if issues == nil {
		issues = []TestIssue{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(issues)
}

// Marshal is Encode into a byte slice.
func Marshal(issues []TestIssue) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, issues); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a payload written by Encode.
func Decode(r io.Reader) ([]TestIssue, error) {
	var issues []TestIssue
	if err := json.NewDecoder(r).Decode(&issues); err != nil {
		return nil, err
	}
	return issues, nil
}
