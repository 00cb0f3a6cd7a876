// Package audit runs the end-to-end evaluation of one eXeLearning package:
// open the archive, read its content, scan media licensing metadata,
// assemble the payload and obtain a validated report from the collaborator.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/JaimeStill/elp-audit/pkg/collaborator"
	"github.com/JaimeStill/elp-audit/pkg/elp"
	"github.com/JaimeStill/elp-audit/pkg/mediameta"
	"github.com/JaimeStill/elp-audit/pkg/metrics"
	"github.com/JaimeStill/elp-audit/pkg/payload"
	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

// Request identifies one package to audit.
type Request struct {
	Filename string
	Language rubric.Language
	Data     []byte
}

// Result is the outcome of a successful run.
type Result struct {
	Report       report.Report
	ContentEntry string
	Annotations  []mediameta.Annotation
	PayloadChars int
}

// Workflow executes audit runs. It is safe for concurrent use.
type Workflow struct {
	cfg     Config
	catalog *rubric.Catalog
	scanner *mediameta.Scanner
	auditor *collaborator.Auditor
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Workflow. A nil extractor uses mediameta.DefaultExtractor.
func New(
	cfg Config,
	catalog *rubric.Catalog,
	extractor mediameta.Extractor,
	auditor *collaborator.Auditor,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Workflow {
	return &Workflow{
		cfg:     cfg,
		catalog: catalog,
		scanner: mediameta.NewScanner(extractor, cfg.MaxMedia, logger),
		auditor: auditor,
		metrics: m,
		logger:  logger.With("workflow", "audit"),
	}
}

// Run audits req. obs may be nil. On failure a StageFailed snapshot carrying
// the error is emitted and the error is returned unchanged.
func (w *Workflow) Run(ctx context.Context, req Request, obs Observer) (*Result, error) {
	if obs == nil {
		obs = noopObserver{}
	}

	result, err := w.run(ctx, req, obs)
	if err != nil {
		w.logger.Warn("audit failed", "filename", req.Filename, "language", req.Language, "error", err)
		w.record(req.Language, metrics.OutcomeFailed)
		emit(obs, StageFailed, err)
		return nil, err
	}

	w.record(req.Language, metrics.OutcomeSuccess)
	if w.metrics != nil {
		w.metrics.AuditScore.Observe(float64(result.Report.OverallScore))
		w.metrics.MediaAnnotated.Observe(float64(len(result.Annotations)))
	}
	emit(obs, StageComplete, nil)
	return result, nil
}

func (w *Workflow) run(ctx context.Context, req Request, obs Observer) (*Result, error) {
	rb, err := w.catalog.Get(req.Language)
	if err != nil {
		return nil, err
	}

	emit(obs, StageExtracting, nil)
	start := time.Now()

	if err := elp.CheckExtension(req.Filename); err != nil {
		return nil, err
	}

	pkg, err := elp.Open(req.Data)
	if err != nil {
		return nil, err
	}

	entry, err := pkg.ContentEntry()
	if err != nil {
		return nil, err
	}

	content, err := pkg.Content()
	if err != nil {
		return nil, err
	}

	annotations, err := w.scanner.Scan(ctx, pkg)
	if err != nil {
		return nil, fmt.Errorf("scan media: %w", err)
	}

	text := payload.New(rb.Payload, w.cfg.MaxPayloadChars).Assemble(content, annotations)
	chars := utf8.RuneCountInString(text)
	w.stage(StageExtracting, start,
		"entry", entry,
		"annotations", len(annotations),
		"payload_chars", chars,
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	emit(obs, StageAuditing, nil)
	start = time.Now()

	r, err := w.auditor.Audit(ctx, req.Filename, text, rb)
	if err != nil {
		return nil, err
	}
	w.stage(StageAuditing, start, "score", r.OverallScore)

	return &Result{
		Report:       r,
		ContentEntry: entry,
		Annotations:  annotations,
		PayloadChars: chars,
	}, nil
}

func (w *Workflow) stage(s Stage, start time.Time, attrs ...any) {
	if w.metrics != nil {
		w.metrics.ObserveStage(string(s), start)
	}
	args := append([]any{"stage", s, "duration", time.Since(start)}, attrs...)
	w.logger.Info("stage completed", args...)
}

func (w *Workflow) record(lang rubric.Language, outcome string) {
	if w.metrics != nil {
		w.metrics.AuditsTotal.WithLabelValues(string(lang), outcome).Inc()
	}
}
