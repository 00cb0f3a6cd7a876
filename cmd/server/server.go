package main

import (
	"time"

	"github.com/docker/go-units"

	"github.com/JaimeStill/elp-audit/internal/config"
	"github.com/JaimeStill/elp-audit/internal/infrastructure"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
	)
	infra.Logger.Info("auditor configured", auditorAttrs(cfg, infra.Rubrics)...)

	if cfg.Collaborator.Token == "" {
		infra.Logger.Warn("collaborator token not set, audits will fail until one is configured")
	}

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns when they are ready.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready", "languages", s.infra.Rubrics.Languages())
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

func auditorAttrs(cfg *config.Config, catalog *rubric.Catalog) []any {
	return []any{
		"languages", catalog.Languages(),
		"collaborator_timeout", cfg.Collaborator.TimeoutDuration(),
		"breaker_failures", cfg.Collaborator.BreakerFailures,
		"breaker_cooldown", cfg.Collaborator.BreakerCooldownDuration(),
		"max_media", cfg.Audit.MaxMedia,
		"max_payload_chars", cfg.Audit.MaxPayloadChars,
		"max_upload", units.HumanSize(float64(cfg.Storage.MaxUploadSizeBytes())),
		"storage", cfg.Storage.BasePath,
	}
}
