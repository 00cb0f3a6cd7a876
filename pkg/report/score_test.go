package report_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/JaimeStill/elp-audit/pkg/report"
)

func criteria(statuses ...report.Status) []report.CriterionResult {
	out := make([]report.CriterionResult, len(statuses))
	for i, s := range statuses {
		out[i] = report.CriterionResult{ID: i + 1, Name: "criterion", Status: s}
	}
	return out
}

func uniform(s report.Status) []report.CriterionResult {
	statuses := make([]report.Status, report.CriteriaCount)
	for i := range statuses {
		statuses[i] = s
	}
	return criteria(statuses...)
}

func TestScoreOf(t *testing.T) {
	tests := []struct {
		status report.Status
		want   int
	}{
		{report.StatusPass, 2},
		{report.StatusWarning, 1},
		{report.StatusFail, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := report.ScoreOf(tt.status); got != tt.want {
				t.Errorf("ScoreOf(%s) = %d, want %d", tt.status, got, tt.want)
			}
		})
	}
}

func TestRecompute(t *testing.T) {
	tests := []struct {
		name     string
		criteria []report.CriterionResult
		want     int
	}{
		{"all pass", uniform(report.StatusPass), 100},
		{"all fail", uniform(report.StatusFail), 0},
		{"all warning", uniform(report.StatusWarning), 50},
		{"one pass rounds half up", criteria(
			report.StatusFail, report.StatusFail, report.StatusPass, report.StatusFail,
			report.StatusFail, report.StatusFail, report.StatusFail, report.StatusFail,
		), 13},
		{"mixed", criteria(
			report.StatusPass, report.StatusWarning, report.StatusPass, report.StatusFail,
			report.StatusPass, report.StatusWarning, report.StatusPass, report.StatusPass,
		), 75},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := report.Recompute(tt.criteria); got != tt.want {
				t.Errorf("Recompute() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecompute_Bounds(t *testing.T) {
	statuses := report.Statuses
	total := 1
	for range report.CriteriaCount {
		total *= len(statuses)
	}

	for n := range total {
		seq := make([]report.Status, report.CriteriaCount)
		v := n
		for i := range seq {
			seq[i] = statuses[v%len(statuses)]
			v /= len(statuses)
		}

		score := report.Recompute(criteria(seq...))
		if score < 0 || score > 100 {
			t.Fatalf("Recompute(%v) = %d, want within [0, 100]", seq, score)
		}
	}
}

func TestPoints(t *testing.T) {
	earned, possible := report.Points(criteria(report.StatusPass, report.StatusWarning, report.StatusFail))
	if earned != 3 {
		t.Errorf("Points() earned = %d, want 3", earned)
	}
	if possible != 6 {
		t.Errorf("Points() possible = %d, want 6", possible)
	}
}

func TestApplyOverride(t *testing.T) {
	original := report.Report{
		CriteriaResults: uniform(report.StatusFail),
		Summary:         "summary",
	}

	updated, err := report.ApplyOverride(original, 3, report.StatusPass)
	if err != nil {
		t.Fatalf("ApplyOverride() error = %v", err)
	}

	if updated.OverallScore != 13 {
		t.Errorf("OverallScore = %d, want 13", updated.OverallScore)
	}

	c, ok := updated.Criterion(3)
	if !ok || c.Status != report.StatusPass {
		t.Errorf("Criterion(3).Status = %v, want PASS", c.Status)
	}

	if original.CriteriaResults[2].Status != report.StatusFail {
		t.Error("ApplyOverride() modified its input")
	}
}

func TestApplyOverride_Errors(t *testing.T) {
	original := report.Report{CriteriaResults: uniform(report.StatusWarning), OverallScore: 50}

	tests := []struct {
		name    string
		id      int
		status  report.Status
		wantErr error
	}{
		{"unknown criterion", 9, report.StatusPass, report.ErrCriterionNotFound},
		{"zero id", 0, report.StatusPass, report.ErrCriterionNotFound},
		{"invalid status", 1, report.Status("MAYBE"), report.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := report.ApplyOverride(original, tt.id, tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ApplyOverride() error = %v, want %v", err, tt.wantErr)
			}
			if got.OverallScore != original.OverallScore {
				t.Errorf("OverallScore = %d, want unchanged %d", got.OverallScore, original.OverallScore)
			}
		})
	}
}

func TestApplyOverride_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 200 {
		base := report.Report{CriteriaResults: uniform(report.StatusWarning)}
		base.OverallScore = report.Recompute(base.CriteriaResults)

		type override struct {
			id     int
			status report.Status
		}
		ops := make([]override, rng.Intn(12)+1)
		for i := range ops {
			ops[i] = override{
				id:     rng.Intn(report.CriteriaCount) + 1,
				status: report.Statuses[rng.Intn(len(report.Statuses))],
			}
		}

		apply := func() report.Report {
			r := base
			for _, op := range ops {
				var err error
				if r, err = report.ApplyOverride(r, op.id, op.status); err != nil {
					t.Fatalf("ApplyOverride() error = %v", err)
				}
			}
			return r
		}

		first, second := apply(), apply()
		if first.OverallScore != second.OverallScore {
			t.Fatalf("repeated overrides scored %d then %d", first.OverallScore, second.OverallScore)
		}
		if first.OverallScore != report.Recompute(first.CriteriaResults) {
			t.Fatalf("OverallScore = %d, want Recompute() = %d", first.OverallScore, report.Recompute(first.CriteriaResults))
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    report.Status
		wantErr bool
	}{
		{"PASS", report.StatusPass, false},
		{" warning ", report.StatusWarning, false},
		{"fail", report.StatusFail, false},
		{"unknown", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := report.ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
