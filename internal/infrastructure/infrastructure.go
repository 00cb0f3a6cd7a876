// Package infrastructure assembles the shared systems every domain module
// depends on: lifecycle, logging, database, storage, metrics, the rubric
// catalog and the collaborator client.
package infrastructure

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/elp-audit/internal/config"
	"github.com/JaimeStill/elp-audit/pkg/collaborator"
	"github.com/JaimeStill/elp-audit/pkg/database"
	"github.com/JaimeStill/elp-audit/pkg/lifecycle"
	"github.com/JaimeStill/elp-audit/pkg/logging"
	"github.com/JaimeStill/elp-audit/pkg/metrics"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
	"github.com/JaimeStill/elp-audit/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle    *lifecycle.Coordinator
	Logger       *slog.Logger
	Database     database.System
	Storage      storage.System
	Metrics      *metrics.Metrics
	Rubrics      *rubric.Catalog
	Collaborator collaborator.Client
}

// New creates an Infrastructure from the application configuration.
// Systems are initialized but not started; call Start separately.
// A missing collaborator credential is not fatal: audits fail with
// collaborator.ErrMissingCredential until one is configured.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging, nil)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	catalog, err := rubric.Default()
	if err != nil {
		return nil, fmt.Errorf("rubric catalog init failed: %w", err)
	}

	client, err := newCollaborator(&cfg.Collaborator, logger)
	if err != nil {
		return nil, fmt.Errorf("collaborator init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:    lc,
		Logger:       logger,
		Database:     db,
		Storage:      store,
		Metrics:      metrics.New(),
		Rubrics:      catalog,
		Collaborator: client,
	}, nil
}

// Start starts every system and registers it with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

func newCollaborator(cfg *collaborator.Config, logger *slog.Logger) (collaborator.Client, error) {
	client, err := collaborator.NewAgentClient(cfg, logger)
	if errors.Is(err, collaborator.ErrMissingCredential) {
		logger.Warn("collaborator token not configured, audits will be rejected")
		return collaborator.Unconfigured(), nil
	}
	if err != nil {
		return nil, err
	}
	return collaborator.WithTimeout(client, cfg.TimeoutDuration()), nil
}
