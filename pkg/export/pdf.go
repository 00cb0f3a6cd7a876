package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

// Renderer writes a report in a document format.
type Renderer interface {
	Render(w io.Writer, r report.Report, rb *rubric.Rubric) error
}

// PDFRenderer renders A4 audit documents: the summary with the overall
// score, each criterion's observation, evidence and suggestions, and the
// rubric grid with the achieved level highlighted.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

const (
	lineHeight = 5.0
	fontFamily = "Helvetica"
)

type rgb struct{ r, g, b int }

var statusColors = map[report.Status]rgb{
	report.StatusPass:    {39, 174, 96},
	report.StatusWarning: {211, 84, 0},
	report.StatusFail:    {192, 57, 43},
}

type pdfDoc struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	labels rubric.Labels
	width  float64
}

func (p *PDFRenderer) Render(w io.Writer, r report.Report, rb *rubric.Rubric) error {
	if rb == nil {
		return fmt.Errorf("render pdf: rubric required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(rb.Title, true)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()

	doc := &pdfDoc{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		labels: rb.Labels,
		width:  pageW - left - right,
	}

	doc.summary(r, rb)
	for _, c := range r.CriteriaResults {
		doc.criterion(c)
	}
	doc.grid(r, rb)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func (d *pdfDoc) summary(r report.Report, rb *rubric.Rubric) {
	d.pdf.AddPage()

	d.pdf.SetFont(fontFamily, "B", 16)
	d.pdf.MultiCell(d.width, 8, d.tr(rb.Title), "", "L", false)
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.MultiCell(d.width, lineHeight, d.tr(r.AnalyzedFileName), "", "L", false)
	d.pdf.Ln(4)

	d.pdf.SetFont(fontFamily, "B", 28)
	d.pdf.CellFormat(d.width, 14, strconv.Itoa(r.OverallScore)+" / 100", "", 1, "C", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.CellFormat(d.width, lineHeight, d.tr(d.labels.Score), "", 1, "C", false, 0, "")
	d.pdf.Ln(4)

	d.heading(d.labels.Summary)
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.MultiCell(d.width, lineHeight, d.tr(r.Summary), "", "L", false)
	d.pdf.Ln(4)
}

func (d *pdfDoc) criterion(c report.CriterionResult) {
	d.pdf.SetFont(fontFamily, "B", 12)
	d.pdf.MultiCell(d.width, 6, d.tr(c.Name), "B", "L", false)

	col := statusColors[c.Status]
	d.pdf.SetTextColor(col.r, col.g, col.b)
	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.CellFormat(d.width, lineHeight+1, d.tr(d.labels.Status(c.Status)), "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)

	d.label(d.labels.Observation)
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.MultiCell(d.width, lineHeight, d.tr(c.Observation), "", "L", false)

	if len(c.Items) > 0 {
		d.label(d.labels.Evidence)
		d.pdf.SetFont(fontFamily, "", 9)
		for _, item := range c.Items {
			mark := d.labels.No
			if item.Pass {
				mark = d.labels.Yes
			}
			line := fmt.Sprintf("[%s] %s: %s", mark, item.Label, item.Details)
			d.pdf.MultiCell(d.width, lineHeight, d.tr(line), "", "L", false)
		}
	}

	if len(c.Suggestions) > 0 {
		d.label(d.labels.Suggestions)
		d.pdf.SetFont(fontFamily, "", 9)
		for _, s := range c.Suggestions {
			d.pdf.MultiCell(d.width, lineHeight, d.tr("- "+s), "", "L", false)
		}
	}

	d.pdf.Ln(4)
}

func (d *pdfDoc) grid(r report.Report, rb *rubric.Rubric) {
	d.pdf.AddPage()
	d.heading(d.labels.Rubric)

	for _, c := range rb.Criteria {
		selected := -1
		if res, ok := r.Criterion(c.ID); ok {
			selected = report.ScoreOf(res.Status)
		}

		d.pdf.SetFont(fontFamily, "B", 10)
		d.pdf.MultiCell(d.width, 6, d.tr(c.Name), "", "L", false)

		for level, text := range c.Levels {
			name := strconv.Itoa(level)
			if level < len(d.labels.Levels) {
				name = d.labels.Levels[level]
			}

			fill := level == selected
			style := ""
			if fill {
				d.pdf.SetFillColor(220, 230, 241)
				style = "B"
			}
			d.pdf.SetFont(fontFamily, style, 9)
			d.pdf.MultiCell(d.width, lineHeight, d.tr(name+": "+text), "1", "L", fill)
		}
		d.pdf.Ln(3)
	}
}

func (d *pdfDoc) heading(text string) {
	d.pdf.SetFont(fontFamily, "B", 13)
	d.pdf.CellFormat(d.width, 8, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *pdfDoc) label(text string) {
	d.pdf.SetFont(fontFamily, "B", 9)
	d.pdf.CellFormat(d.width, lineHeight, d.tr(text), "", 1, "L", false, 0, "")
}

// PageCount reads a rendered PDF and returns its number of pages.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return n, nil
}
