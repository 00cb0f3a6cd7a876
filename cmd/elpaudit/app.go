package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/JaimeStill/elp-audit/internal/config"
	"github.com/JaimeStill/elp-audit/pkg/collaborator"
	"github.com/JaimeStill/elp-audit/pkg/export"
	"github.com/JaimeStill/elp-audit/pkg/logging"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
	"github.com/JaimeStill/elp-audit/workflows/audit"
)

type app struct {
	opts     options
	language rubric.Language
	rubric   *rubric.Rubric
	workflow *audit.Workflow
	renderer export.Renderer
	out      io.Writer
	now      func() time.Time
}

func newApp(cfg *config.Config, opts options) (*app, error) {
	lang, err := rubric.ParseLanguage(opts.language)
	if err != nil {
		return nil, err
	}

	catalog, err := rubric.Default()
	if err != nil {
		return nil, fmt.Errorf("load rubrics: %w", err)
	}
	rb, err := catalog.Get(lang)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.DiscardHandler)
	if opts.verbose {
		logger = logging.New(&cfg.Logging, os.Stderr)
	}

	client, err := collaborator.NewAgentClient(&cfg.Collaborator, logger)
	if err != nil {
		return nil, fmt.Errorf("collaborator: %w", err)
	}
	client = collaborator.WithTimeout(client, cfg.Collaborator.TimeoutDuration())

	workflow := audit.New(
		cfg.Audit,
		catalog,
		nil,
		collaborator.NewAuditor(client, logger),
		nil,
		logger,
	)

	return &app{
		opts:     opts,
		language: lang,
		rubric:   rb,
		workflow: workflow,
		renderer: export.NewPDFRenderer(),
		out:      os.Stdout,
		now:      time.Now,
	}, nil
}

func (a *app) audit(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	filename := filepath.Base(path)
	result, err := a.workflow.Run(ctx, audit.Request{
		Filename: filename,
		Language: a.language,
		Data:     data,
	}, progressPrinter(os.Stderr, filename))
	if err != nil {
		return err
	}

	if err := renderReport(a.out, result.Report, a.rubric); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if a.opts.csv {
		if err := a.write(filename, export.ExtCSV, func(w io.Writer) error {
			return export.WriteCSV(w, result.Report)
		}); err != nil {
			return err
		}
	}
	if a.opts.pdf {
		if err := a.write(filename, export.ExtPDF, func(w io.Writer) error {
			return a.renderer.Render(w, result.Report, a.rubric)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) write(source, ext string, fn func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return fmt.Errorf("export %s: %w", ext, err)
	}

	path := filepath.Join(a.opts.outDir, export.Filename(source, string(a.language), a.now(), ext))
	if err := os.MkdirAll(a.opts.outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	color.New(color.FgHiBlack).Fprintf(a.out, "wrote %s\n", path)
	return nil
}
