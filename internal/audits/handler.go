package audits

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/elp-audit/pkg/decode"
	"github.com/JaimeStill/elp-audit/pkg/export"
	"github.com/JaimeStill/elp-audit/pkg/handlers"
	"github.com/JaimeStill/elp-audit/pkg/pagination"
	"github.com/JaimeStill/elp-audit/pkg/routes"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypePDF = "application/pdf"
	contentTypeZip = "application/zip"
)

// Handler provides HTTP endpoints for audit operations.
type Handler struct {
	sys           System
	rubrics       *rubric.Catalog
	renderer      export.Renderer
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
	now           func() time.Time
}

// NewHandler creates an audit handler.
func NewHandler(
	sys System,
	rubrics *rubric.Catalog,
	renderer export.Renderer,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		rubrics:       rubrics,
		renderer:      renderer,
		logger:        logger.With("handler", "audits"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
		now:           time.Now,
	}
}

// Routes returns the audit endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/audits",
		Tags:        []string{"Audits"},
		Description: "eXeLearning package audits",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: Spec.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "PUT", Pattern: "/{id}/criteria/{criterionId}", Handler: h.Override, OpenAPI: Spec.Override},
		},
		Children: []routes.Group{
			{
				Prefix:      "/{id}",
				Tags:        []string{"Exports"},
				Description: "Audit report exports",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/export.csv", Handler: h.ExportCSV, OpenAPI: Spec.ExportCSV},
					{Method: "GET", Pattern: "/export.pdf", Handler: h.ExportPDF, OpenAPI: Spec.ExportPDF},
					{Method: "GET", Pattern: "/package", Handler: h.Package, OpenAPI: Spec.Package},
				},
			},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := decode.JSON[pagination.PageRequest](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	a, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

// Create runs an audit on the uploaded package. The request blocks until the
// collaborator has answered.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidFile, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	lang := rubric.Spanish
	if v := r.FormValue("language"); v != "" {
		if lang, err = rubric.ParseLanguage(v); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	a, err := h.sys.Create(r.Context(), CreateCommand{
		Filename: header.Filename,
		Language: lang,
		Data:     data,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, a)
}

func (h *Handler) Override(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	criterionID, err := strconv.Atoi(r.PathValue("criterionId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid criterion id: %w", err))
		return
	}

	cmd, err := decode.JSON[OverrideCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	a, err := h.sys.Override(r.Context(), id, criterionID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	a, ok := h.find(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, a.Report); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	name := export.Filename(a.Filename, string(a.Language), h.now(), export.ExtCSV)
	handlers.RespondAttachment(w, contentTypeCSV, name, buf.Bytes())
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	a, ok := h.find(w, r)
	if !ok {
		return
	}

	rb, err := h.rubrics.Get(a.Language)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, a.Report, rb); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	name := export.Filename(a.Filename, string(a.Language), h.now(), export.ExtPDF)
	handlers.RespondAttachment(w, contentTypePDF, name, buf.Bytes())
}

func (h *Handler) Package(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	a, rc, err := h.sys.Package(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentTypeZip)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", storageName(a.Filename)))
	w.Header().Set("Content-Length", strconv.FormatInt(a.SizeBytes, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("package download interrupted", "id", id, "error", err)
	}
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) (*Audit, bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return nil, false
	}

	a, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return a, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid audit id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}
