// Package rubrics serves the rubric definitions used to render the
// interactive evaluation grid.
package rubrics

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/elp-audit/pkg/handlers"
	"github.com/JaimeStill/elp-audit/pkg/openapi"
	"github.com/JaimeStill/elp-audit/pkg/routes"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

// Handler provides read-only rubric endpoints.
type Handler struct {
	catalog *rubric.Catalog
	logger  *slog.Logger
}

// NewHandler creates a rubric handler over catalog.
func NewHandler(catalog *rubric.Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger.With("handler", "rubrics"),
	}
}

// Routes returns the rubric endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/rubrics",
		Tags:        []string{"Rubrics"},
		Description: "Evaluation rubric definitions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Languages, OpenAPI: Spec.Languages},
			{Method: "GET", Pattern: "/{language}", Handler: h.Get, OpenAPI: Spec.Get},
		},
	}
}

func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.catalog.Languages())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	lang, err := rubric.ParseLanguage(r.PathValue("language"))
	if err == nil {
		var rb *rubric.Rubric
		if rb, err = h.catalog.Get(lang); err == nil {
			handlers.RespondJSON(w, http.StatusOK, rb)
			return
		}
	}

	status := http.StatusInternalServerError
	if errors.Is(err, rubric.ErrUnsupportedLanguage) {
		status = http.StatusNotFound
	}
	handlers.RespondError(w, h.logger, status, err)
}

type spec struct {
	Languages *openapi.Operation
	Get       *openapi.Operation
}

var Spec = spec{
	Languages: &openapi.Operation{
		Summary:     "List rubric languages",
		Description: "Language codes with an available rubric",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Language codes",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.ArrayOf(&openapi.Schema{Type: "string"})},
				},
			},
		},
	},
	Get: &openapi.Operation{
		Summary:     "Get rubric",
		Description: "Rubric criteria, achievement levels and localized labels for one language",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("language", "", "Language code (es, eu)"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Rubric", "Rubric"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Rubric": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"language": {Type: "string"},
				"title":    {Type: "string"},
				"labels":   {Type: "object", Description: "Localized headings and status names"},
				"criteria": openapi.ArrayOf(&openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"id":     openapi.IntRange(1, 8),
						"name":   {Type: "string"},
						"levels": openapi.ArrayOf(&openapi.Schema{Type: "string"}),
					},
				}),
			},
		},
	}
}
