package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
	"github.com/JaimeStill/elp-audit/workflows/audit"
)

var statusColors = map[report.Status]*color.Color{
	report.StatusPass:    color.New(color.FgHiGreen, color.Bold),
	report.StatusWarning: color.New(color.FgHiYellow, color.Bold),
	report.StatusFail:    color.New(color.FgHiRed, color.Bold),
}

func progressPrinter(w io.Writer, filename string) audit.Observer {
	return audit.ObserverFunc(func(p audit.Progress) {
		if p.Stage == audit.StageFailed {
			return
		}
		color.New(color.FgHiBlack).Fprintf(w, "%s: %s (%d%%)\n", filename, p.Stage, p.Percent)
	})
}

// renderReport prints the score, summary and one table row per criterion
// with its rubric level.
func renderReport(w io.Writer, r report.Report, rb *rubric.Rubric) error {
	fmt.Fprintln(w)
	color.New(color.FgHiBlue, color.Bold, color.Underline).Fprintln(w, r.AnalyzedFileName)
	fmt.Fprintf(w, "%s: %s\n", rb.Labels.Score, scoreColor(r.OverallScore).Sprintf("%d/100", r.OverallScore))
	if r.Summary != "" {
		fmt.Fprintf(w, "%s: %s\n", rb.Labels.Summary, r.Summary)
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	if err := table.Append([]string{"#", rb.Labels.Criterion, "Status", rb.Labels.Observation}); err != nil {
		return err
	}

	for _, c := range r.CriteriaResults {
		status := rb.Labels.Status(c.Status)
		if col, ok := statusColors[c.Status]; ok {
			status = col.Sprint(status)
		}
		if err := table.Append([]string{strconv.Itoa(c.ID), c.Name, status, c.Observation}); err != nil {
			return err
		}
	}

	return table.Render()
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return statusColors[report.StatusPass]
	case score >= 50:
		return statusColors[report.StatusWarning]
	default:
		return statusColors[report.StatusFail]
	}
}
