package export_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/elp-audit/pkg/export"
	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

func sampleReport() report.Report {
	criteria := make([]report.CriterionResult, report.CriteriaCount)
	for i := range criteria {
		criteria[i] = report.CriterionResult{
			ID:          i + 1,
			Name:        fmt.Sprintf("%d. Criterion", i+1),
			Status:      report.StatusPass,
			Observation: "ok",
			Suggestions: []string{},
		}
	}

	criteria[0].Status = report.StatusWarning
	criteria[0].Observation = `Stage "ESO", decree cited`
	criteria[5].Items = []report.SubItem{
		{Label: "foto1.jpg", Pass: true, Details: "CC BY-SA 4.0"},
		{Label: "foto2.jpg", Pass: false, Details: "Copyright, all rights reserved"},
		{Label: "mapa.png", Pass: false, Details: "No indicada"},
	}
	criteria[7].Status = report.StatusFail
	criteria[7].Suggestions = []string{"Use target=\"_blank\"", "Embed links in words"}

	r := report.Report{
		Summary:          "Resumen con acentos: ñ, á, é. Laburpena: itzulpena.",
		CriteriaResults:  criteria,
		AnalyzedFileName: "unidad didáctica.elp",
	}
	r.OverallScore = report.Recompute(r.CriteriaResults)
	return r
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, export.BOM) {
		t.Fatal("output missing byte-order mark")
	}

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, export.BOM))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if got := strings.Join(rows[0], ","); got != "ID,Criterion,Score,Status,Observation,Element,Pass,Detail" {
		t.Errorf("header = %q", got)
	}

	// 7 criteria without items + 3 item rows for criterion 6, plus header.
	if len(rows) != 1+7+3 {
		t.Fatalf("len(rows) = %d, want 11", len(rows))
	}

	first := rows[1]
	want := []string{"1", "1. Criterion", "1", "WARNING", `Stage "ESO", decree cited`, "-", "-", "-"}
	if strings.Join(first, "|") != strings.Join(want, "|") {
		t.Errorf("row 1 = %q, want %q", first, want)
	}

	var sixth [][]string
	for _, row := range rows[1:] {
		if row[0] == "6" {
			sixth = append(sixth, row)
		}
	}
	if len(sixth) != 3 {
		t.Fatalf("criterion 6 rows = %d, want 3", len(sixth))
	}
	for _, row := range sixth {
		if row[1] != "6. Criterion" || row[3] != "PASS" || row[4] != "ok" {
			t.Errorf("criterion 6 row lost shared columns: %q", row)
		}
	}
	if sixth[0][5] != "foto1.jpg" || sixth[0][6] != "YES" || sixth[1][6] != "NO" {
		t.Errorf("item columns = %q / %q", sixth[0], sixth[1])
	}
	if sixth[2][5] != "mapa.png" {
		t.Errorf("item order not preserved: %q", sixth[2])
	}
}

func TestWriteCSV_Quoting(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	if !strings.Contains(buf.String(), `"Stage ""ESO"", decree cited"`) {
		t.Errorf("observation not quoted with doubled quotes:\n%s", buf.String())
	}
}

func TestFilename(t *testing.T) {
	date := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		source string
		lang   string
		ext    string
		want   string
	}{
		{"simple", "unit1.elp", "es", export.ExtCSV, "audit_unit1_es_2026-03-09.csv"},
		{"spaces", "unidad didáctica.elpx", "eu", export.ExtCSV, "audit_unidad_didáctica_eu_2026-03-09.csv"},
		{"path", `C:\docs\tema/3.zip`, "es", export.ExtPDF, "audit_3_es_2026-03-09.pdf"},
		{"unsafe", `a:b*c?.elp`, "es", export.ExtCSV, "audit_abc_es_2026-03-09.csv"},
		{"empty", "", "es", export.ExtCSV, "audit_package_es_2026-03-09.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := export.Filename(tt.source, tt.lang, date, tt.ext); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPDFRenderer_Render(t *testing.T) {
	catalog, err := rubric.Load()
	if err != nil {
		t.Fatalf("rubric.Load() error = %v", err)
	}

	for _, lang := range catalog.Languages() {
		t.Run(string(lang), func(t *testing.T) {
			rb, _ := catalog.Get(lang)

			var buf bytes.Buffer
			if err := export.NewPDFRenderer().Render(&buf, sampleReport(), rb); err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Fatal("output is not a PDF")
			}

			pages, err := export.PageCount(buf.Bytes())
			if err != nil {
				t.Fatalf("PageCount() error = %v", err)
			}
			if pages < 2 {
				t.Errorf("pages = %d, want at least 2", pages)
			}
		})
	}
}

func TestPDFRenderer_RequiresRubric(t *testing.T) {
	var buf bytes.Buffer
	if err := export.NewPDFRenderer().Render(&buf, sampleReport(), nil); err == nil {
		t.Error("Render() error = nil, want error")
	}
}

func TestPageCount_Invalid(t *testing.T) {
	if _, err := export.PageCount([]byte("not a pdf")); err == nil {
		t.Error("PageCount() error = nil, want error")
	}
}
