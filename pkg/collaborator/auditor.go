package collaborator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

const schemaInstruction = `
Respond ONLY with a JSON object of this exact shape, without any other text:
{
  "overallScore": <integer 0-100>,
  "summary": "<string>",
  "criteriaResults": [
    {
      "id": <integer 1-8>,
      "name": "<string>",
      "status": "PASS" | "WARNING" | "FAIL",
      "observation": "<string>",
      "items": [ { "label": "<string>", "pass": <boolean>, "details": "<string>" } ],
      "suggestions": [ "<string>" ]
    }
  ]
}
criteriaResults must contain exactly 8 entries, one per criterion.`

// Auditor runs a payload through a Client and validates the reply.
type Auditor struct {
	client Client
	logger *slog.Logger
}

// NewAuditor creates an Auditor over client.
func NewAuditor(client Client, logger *slog.Logger) *Auditor {
	return &Auditor{
		client: client,
		logger: logger.With("system", "collaborator"),
	}
}

// Prompt returns the full system prompt sent for rb.
func Prompt(rb *rubric.Rubric) string {
	return strings.TrimSpace(rb.Prompt) + "\n" + schemaInstruction
}

// Audit evaluates payload against rb. The returned report is schema-checked,
// carries filename and a score recomputed from the criterion statuses.
// Every failure wraps ErrCollaborator.
func (a *Auditor) Audit(ctx context.Context, filename, payload string, rb *rubric.Rubric) (report.Report, error) {
	if rb == nil {
		return report.Report{}, fmt.Errorf("%w: rubric required", ErrCollaborator)
	}

	content, err := a.client.Audit(ctx, Prompt(rb), payload)
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: %w", ErrCollaborator, err)
	}

	data, err := ExtractJSON(content)
	if err != nil {
		a.logger.Warn("unparseable response", "filename", filename, "chars", len(content))
		return report.Report{}, fmt.Errorf("%w: %w", ErrCollaborator, err)
	}

	r, err := report.Decode(data)
	if err != nil {
		a.logger.Warn("invalid report", "filename", filename, "error", err)
		return report.Report{}, fmt.Errorf("%w: %w", ErrCollaborator, err)
	}

	r.AnalyzedFileName = filename
	r.OverallScore = report.Recompute(r.CriteriaResults)

	a.logger.Info("audit completed", "filename", filename, "score", r.OverallScore)
	return r, nil
}
