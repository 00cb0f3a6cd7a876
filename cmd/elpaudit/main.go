// Command elpaudit audits eXeLearning packages from the command line and
// prints the rubric grid, optionally writing CSV and PDF reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/JaimeStill/elp-audit/internal/config"
	"github.com/JaimeStill/elp-audit/pkg/database"
)

const usage = `usage: elpaudit [flags] <package.elp>...

Audits each package against the accessibility and licensing rubric using the
collaborator configured in config.toml (or COLLABORATOR_* variables).

flags:
`

type options struct {
	language string
	outDir   string
	csv      bool
	pdf      bool
	noColor  bool
	verbose  bool
}

func main() {
	var opts options

	flags := pflag.NewFlagSet("elpaudit", pflag.ContinueOnError)
	flags.StringVarP(&opts.language, "language", "l", "es", "Rubric language (es, eu)")
	flags.StringVarP(&opts.outDir, "out", "o", ".", "Directory for exported reports")
	flags.BoolVar(&opts.csv, "csv", false, "Write a CSV report per package")
	flags.BoolVar(&opts.pdf, "pdf", false, "Write a PDF report per package")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log workflow stages")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}
	if opts.noColor {
		color.NoColor = true
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, opts)
	if err != nil {
		fail("%v", err)
	}

	failed := 0
	for _, path := range flags.Args() {
		if err := app.audit(ctx, path); err != nil {
			failed++
			color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "%s: %v\n", path, err)
		}
		if ctx.Err() != nil {
			break
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// loadConfig reads config.toml when present and otherwise finalizes a
// default configuration so environment variables still apply. The CLI never
// opens the database; its placeholder identity only satisfies validation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &config.Config{
			Database: database.Config{Name: "elpaudit", User: "elpaudit"},
		}
		return cfg, cfg.Finalize()
	}
	return cfg, err
}

func fail(format string, args ...any) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "elpaudit: "+format+"\n", args...)
	os.Exit(1)
}
