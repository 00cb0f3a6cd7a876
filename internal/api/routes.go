package api

import (
	"net/http"

	"github.com/JaimeStill/elp-audit/internal/audits"
	"github.com/JaimeStill/elp-audit/internal/config"
	"github.com/JaimeStill/elp-audit/internal/rubrics"
	"github.com/JaimeStill/elp-audit/pkg/export"
	"github.com/JaimeStill/elp-audit/pkg/openapi"
	"github.com/JaimeStill/elp-audit/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	auditsHandler := audits.NewHandler(
		domain.Audits,
		runtime.Rubrics,
		export.NewPDFRenderer(),
		runtime.Logger,
		runtime.Pagination,
		runtime.MaxUploadSize,
	)
	rubricsHandler := rubrics.NewHandler(runtime.Rubrics, runtime.Logger)

	spec.Components.AddSchemas(audits.Spec.Schemas())
	spec.Components.AddSchemas(rubrics.Spec.Schemas())

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		auditsHandler.Routes(),
		rubricsHandler.Routes(),
	)
}
