// Package export renders audit reports to downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/JaimeStill/elp-audit/pkg/report"
)

// BOM prefixes CSV output so spreadsheet readers detect UTF-8.
const BOM = "\uFEFF"

// Placeholder fills the item columns of a criterion without items.
const Placeholder = "-"

// Header is the fixed CSV header row.
var Header = []string{"ID", "Criterion", "Score", "Status", "Observation", "Element", "Pass", "Detail"}

// WriteCSV writes r as CSV: one row per sub-item, or a single placeholder row
// for a criterion without items, in report order.
func WriteCSV(w io.Writer, r report.Report) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, c := range r.CriteriaResults {
		lead := []string{
			strconv.Itoa(c.ID),
			c.Name,
			strconv.Itoa(report.ScoreOf(c.Status)),
			string(c.Status),
			c.Observation,
		}

		if len(c.Items) == 0 {
			if err := cw.Write(append(lead, Placeholder, Placeholder, Placeholder)); err != nil {
				return fmt.Errorf("write criterion %d: %w", c.ID, err)
			}
			continue
		}

		for _, item := range c.Items {
			row := append(append([]string(nil), lead...), item.Label, passLabel(item.Pass), item.Details)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write criterion %d: %w", c.ID, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func passLabel(pass bool) string {
	if pass {
		return "YES"
	}
	return "NO"
}
