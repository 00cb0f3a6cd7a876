package report

import (
	"fmt"
	"slices"
)

// MaxPoints is the score of a passing criterion.
const MaxPoints = 2

// ScoreOf maps a status to rubric points: PASS 2, WARNING 1, FAIL 0.
func ScoreOf(s Status) int {
	switch s {
	case StatusPass:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// Points returns the earned and possible rubric points for criteria.
func Points(criteria []CriterionResult) (earned, possible int) {
	for _, c := range criteria {
		earned += ScoreOf(c.Status)
	}
	return earned, MaxPoints * len(criteria)
}

// Recompute derives the 0-100 overall score from criterion statuses,
// rounding half up. An empty list scores 0.
func Recompute(criteria []CriterionResult) int {
	earned, _ := Points(criteria)
	den := MaxPoints * max(len(criteria), 1)
	return (2*100*earned + den) / (2 * den)
}

// ApplyOverride returns a copy of r with criterion id set to status and the
// overall score recomputed. r itself is never modified.
func ApplyOverride(r Report, id int, status Status) (Report, error) {
	if !status.Valid() {
		return r, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	idx := slices.IndexFunc(r.CriteriaResults, func(c CriterionResult) bool {
		return c.ID == id
	})
	if idx < 0 {
		return r, fmt.Errorf("%w: %d", ErrCriterionNotFound, id)
	}

	out := r.Clone()
	out.CriteriaResults[idx].Status = status
	out.OverallScore = Recompute(out.CriteriaResults)
	return out, nil
}
