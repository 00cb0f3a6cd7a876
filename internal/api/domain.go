package api

import (
	"github.com/JaimeStill/elp-audit/internal/audits"
	"github.com/JaimeStill/elp-audit/internal/config"
	"github.com/JaimeStill/elp-audit/pkg/collaborator"
	"github.com/JaimeStill/elp-audit/workflows/audit"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Audits audits.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	workflow := audit.New(
		cfg.Audit,
		runtime.Rubrics,
		nil,
		collaborator.NewAuditor(runtime.Collaborator, runtime.Logger),
		runtime.Metrics,
		runtime.Logger,
	)

	auditsSys := audits.New(
		runtime.Database.Connection(),
		runtime.Storage,
		workflow,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Audits: auditsSys,
	}
}
