// Command migrate applies the embedded schema migrations to the audit
// database.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/JaimeStill/elp-audit/internal/config"
	"github.com/JaimeStill/elp-audit/pkg/logging"
)

const EnvDatabaseURL = "DATABASE_URL"

const usage = `usage: migrate [flags] <command>

commands:
  up          apply pending migrations
  down        revert migrations (all unless --steps is set)
  version     print the current schema version
  force <v>   set the version without running migrations

flags:
`

func main() {
	flags := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	var (
		url   = flags.String("url", "", "Database URL (pgx5://...), defaults to "+EnvDatabaseURL+" or config.toml")
		steps = flags.Int("steps", 0, "Number of migrations to apply or revert")
	)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}
	logger := logging.New(&cfg.Logging, nil).With("cmd", "migrate")

	if *url == "" {
		*url = os.Getenv(EnvDatabaseURL)
	}
	if *url == "" {
		*url = cfg.Database.URL("pgx5")
	}

	mg, err := newMigrator(*url, logger)
	if err != nil {
		log.Fatal("migrator init failed:", err)
	}
	defer mg.Close()

	if err := run(mg, flags.Args(), *steps); err != nil {
		mg.Close()
		log.Fatal(err)
	}
}

func run(mg *migrator, args []string, steps int) error {
	switch args[0] {
	case "up":
		if err := mg.Up(steps); err != nil {
			return fmt.Errorf("up: %w", err)
		}
	case "down":
		if err := mg.Down(steps); err != nil {
			return fmt.Errorf("down: %w", err)
		}
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force: version required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("force: invalid version %q", args[1])
		}
		if err := mg.Force(v); err != nil {
			return fmt.Errorf("force: %w", err)
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}

	version, dirty, ok, err := mg.Version()
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	if !ok {
		fmt.Println("version: none")
		return nil
	}
	fmt.Printf("version: %d (dirty: %t)\n", version, dirty)
	return nil
}
