// Package report defines the compliance report returned for an audited
// eXeLearning package and the rubric rules that keep its score consistent.
package report

import (
	"fmt"
	"slices"
	"strings"
)

// CriteriaCount is the number of rubric criteria every report carries.
const CriteriaCount = 8

// Status is the evaluation outcome of a single criterion.
type Status string

// Status values in descending order of compliance.
const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
)

// Statuses lists every valid Status.
var Statuses = []Status{StatusPass, StatusWarning, StatusFail}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// ParseStatus converts a case-insensitive status name into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return s, nil
}

// SubItem is one piece of evidence checked within a criterion.
type SubItem struct {
	Label   string `json:"label"`
	Pass    bool   `json:"pass"`
	Details string `json:"details"`
}

// CriterionResult is the evaluation of one rubric criterion.
type CriterionResult struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Observation string    `json:"observation"`
	Items       []SubItem `json:"items"`
	Suggestions []string  `json:"suggestions"`
}

// Report is the full audit outcome for one package.
// OverallScore always equals Recompute(CriteriaResults).
type Report struct {
	OverallScore     int               `json:"overallScore"`
	Summary          string            `json:"summary"`
	CriteriaResults  []CriterionResult `json:"criteriaResults"`
	AnalyzedFileName string            `json:"analyzedFileName"`
}

// Criterion returns the result with the given id.
func (r Report) Criterion(id int) (CriterionResult, bool) {
	for _, c := range r.CriteriaResults {
		if c.ID == id {
			return c, true
		}
	}
	return CriterionResult{}, false
}

// Clone returns a deep copy of the report.
func (r Report) Clone() Report {
	out := r
	out.CriteriaResults = make([]CriterionResult, len(r.CriteriaResults))
	for i, c := range r.CriteriaResults {
		c.Items = slices.Clone(c.Items)
		c.Suggestions = slices.Clone(c.Suggestions)
		out.CriteriaResults[i] = c
	}
	return out
}
