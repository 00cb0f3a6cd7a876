package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

type rawReport struct {
	OverallScore    *float64        `json:"overallScore"`
	Summary         *string         `json:"summary"`
	CriteriaResults *[]rawCriterion `json:"criteriaResults"`
}

type rawCriterion struct {
	ID          *int       `json:"id"`
	Name        *string    `json:"name"`
	Status      *string    `json:"status"`
	Observation *string    `json:"observation"`
	Items       *[]rawItem `json:"items"`
	Suggestions *[]*string `json:"suggestions"`
}

type rawItem struct {
	Label   *string `json:"label"`
	Pass    *bool   `json:"pass"`
	Details *string `json:"details"`
}

// Decode parses untrusted report JSON and validates every field:
// presence and type of all required keys, exactly CriteriaCount criteria
// with unique ids in 1..CriteriaCount, and valid statuses.
// Criteria are ordered by id and OverallScore is recomputed from statuses.
// AnalyzedFileName is left empty for the caller to set.
func Decode(data []byte) (Report, error) {
	var raw rawReport

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if raw.OverallScore == nil {
		return Report{}, missing("overallScore")
	}
	if *raw.OverallScore < 0 || *raw.OverallScore > 100 {
		return Report{}, fmt.Errorf("%w: overallScore %v out of range", ErrSchema, *raw.OverallScore)
	}
	if raw.Summary == nil {
		return Report{}, missing("summary")
	}
	if raw.CriteriaResults == nil {
		return Report{}, missing("criteriaResults")
	}
	if n := len(*raw.CriteriaResults); n != CriteriaCount {
		return Report{}, fmt.Errorf("%w: criteriaResults has %d entries, want %d", ErrSchema, n, CriteriaCount)
	}

	seen := make(map[int]bool, CriteriaCount)
	criteria := make([]CriterionResult, 0, CriteriaCount)

	for i, rc := range *raw.CriteriaResults {
		c, err := rc.result(fmt.Sprintf("criteriaResults[%d]", i))
		if err != nil {
			return Report{}, err
		}
		if c.ID < 1 || c.ID > CriteriaCount {
			return Report{}, fmt.Errorf("%w: criteriaResults[%d].id %d out of range", ErrSchema, i, c.ID)
		}
		if seen[c.ID] {
			return Report{}, fmt.Errorf("%w: criteriaResults[%d].id %d duplicated", ErrSchema, i, c.ID)
		}
		seen[c.ID] = true
		criteria = append(criteria, c)
	}

	slices.SortStableFunc(criteria, func(a, b CriterionResult) int {
		return a.ID - b.ID
	})

	return Report{
		OverallScore:    Recompute(criteria),
		Summary:         *raw.Summary,
		CriteriaResults: criteria,
	}, nil
}

func (rc rawCriterion) result(path string) (CriterionResult, error) {
	switch {
	case rc.ID == nil:
		return CriterionResult{}, missing(path + ".id")
	case rc.Name == nil:
		return CriterionResult{}, missing(path + ".name")
	case rc.Status == nil:
		return CriterionResult{}, missing(path + ".status")
	case rc.Observation == nil:
		return CriterionResult{}, missing(path + ".observation")
	case rc.Items == nil:
		return CriterionResult{}, missing(path + ".items")
	case rc.Suggestions == nil:
		return CriterionResult{}, missing(path + ".suggestions")
	}

	status := Status(*rc.Status)
	if !status.Valid() {
		return CriterionResult{}, fmt.Errorf("%w: %s.status %q invalid", ErrSchema, path, *rc.Status)
	}

	items := make([]SubItem, 0, len(*rc.Items))
	for j, ri := range *rc.Items {
		itemPath := fmt.Sprintf("%s.items[%d]", path, j)
		switch {
		case ri.Label == nil:
			return CriterionResult{}, missing(itemPath + ".label")
		case ri.Pass == nil:
			return CriterionResult{}, missing(itemPath + ".pass")
		case ri.Details == nil:
			return CriterionResult{}, missing(itemPath + ".details")
		}
		items = append(items, SubItem{Label: *ri.Label, Pass: *ri.Pass, Details: *ri.Details})
	}

	suggestions := make([]string, 0, len(*rc.Suggestions))
	for j, sg := range *rc.Suggestions {
		if sg == nil {
			return CriterionResult{}, missing(fmt.Sprintf("%s.suggestions[%d]", path, j))
		}
		suggestions = append(suggestions, *sg)
	}

	return CriterionResult{
		ID:          *rc.ID,
		Name:        *rc.Name,
		Status:      status,
		Observation: *rc.Observation,
		Items:       items,
		Suggestions: suggestions,
	}, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s required", ErrSchema, field)
}
