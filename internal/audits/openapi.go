package audits

import "github.com/JaimeStill/elp-audit/pkg/openapi"

type spec struct {
	List      *openapi.Operation
	Create    *openapi.Operation
	Search    *openapi.Operation
	Find      *openapi.Operation
	Delete    *openapi.Operation
	Override  *openapi.Operation
	ExportCSV *openapi.Operation
	ExportPDF *openapi.Operation
	Package   *openapi.Operation
}

var idParam = openapi.PathParam("id", "uuid", "Audit ID")

var filterParams = []*openapi.Parameter{
	openapi.QueryParam("filename", "string", "Filter by filename (contains)", false),
	openapi.QueryParam("language", "string", "Filter by rubric language (es, eu)", false),
	openapi.QueryParam("min_score", "integer", "Minimum overall score", false),
	openapi.QueryParam("max_score", "integer", "Maximum overall score", false),
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List audits",
		Description: "List audits with pagination and optional filters",
		Parameters: append([]*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in filename", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -OverallScore,Filename", false),
		}, filterParams...),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Audits list", "AuditPageResult"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Audit package",
		Description: "Upload an eXeLearning package (.elp, .elpx or .zip) and evaluate it against the rubric of the selected language. Blocks until the collaborator has answered.",
		RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
			"file":     {Type: "string", Format: "binary", Description: "Package archive"},
			"language": {Type: "string", Enum: []any{"es", "eu"}, Description: "Rubric language (default es)"},
		}, "file"),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Audit completed", "Audit"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			422: openapi.ResponseRef("UnprocessableEntity"),
			502: openapi.ResponseRef("BadGateway"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search audits",
		Description: "Search audits with pagination in request body",
		Parameters:  filterParams,
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Search results", "AuditPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find audit",
		Description: "Find audit by ID",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Audit details", "Audit"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete audit",
		Description: "Delete audit and release its stored package",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Audit deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Override: &openapi.Operation{
		Summary:     "Override criterion",
		Description: "Set the status of one criterion and recompute the overall score",
		Parameters: []*openapi.Parameter{
			idParam,
			{Name: "criterionId", In: "path", Required: true, Description: "Criterion ID (1-8)", Schema: openapi.IntRange(1, 8)},
		},
		RequestBody: openapi.RequestBodyJSON("OverrideCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Audit updated", "Audit"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	ExportCSV: &openapi.Operation{
		Summary:     "Export CSV",
		Description: "Download the report as UTF-8 CSV with one row per evidence item",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("CSV report", contentTypeCSV),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	ExportPDF: &openapi.Operation{
		Summary:     "Export PDF",
		Description: "Download the report as a PDF document including the rubric grid",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("PDF report", contentTypePDF),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Package: &openapi.Operation{
		Summary:     "Download package",
		Description: "Download the audited package archive",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Package archive", contentTypeZip),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	status := &openapi.Schema{Type: "string", Enum: []any{"PASS", "WARNING", "FAIL"}}

	return map[string]*openapi.Schema{
		"Audit": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"filename":        {Type: "string", Description: "Uploaded package filename"},
				"language":        {Type: "string", Enum: []any{"es", "eu"}},
				"digest":          {Type: "string", Description: "BLAKE3-256 hex digest of the package"},
				"size_bytes":      {Type: "integer", Format: "int64"},
				"storage_key":     {Type: "string"},
				"content_entry":   {Type: "string", Description: "Archive entry used as content document"},
				"media_annotated": {Type: "integer", Description: "Media files with licensing metadata"},
				"overall_score":   openapi.IntRange(0, 100),
				"report":          openapi.SchemaRef("Report"),
				"created_at":      {Type: "string", Format: "date-time"},
				"updated_at":      {Type: "string", Format: "date-time"},
			},
		},
		"Report": {
			Type:     "object",
			Required: []string{"overallScore", "summary", "criteriaResults"},
			Properties: map[string]*openapi.Schema{
				"overallScore":     openapi.IntRange(0, 100),
				"summary":          {Type: "string"},
				"analyzedFileName": {Type: "string"},
				"criteriaResults":  openapi.ArrayOf(openapi.SchemaRef("CriterionResult")),
			},
		},
		"CriterionResult": {
			Type:     "object",
			Required: []string{"id", "name", "status", "observation", "items", "suggestions"},
			Properties: map[string]*openapi.Schema{
				"id":          openapi.IntRange(1, 8),
				"name":        {Type: "string"},
				"status":      status,
				"observation": {Type: "string"},
				"items": openapi.ArrayOf(&openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"label":   {Type: "string"},
						"pass":    {Type: "boolean"},
						"details": {Type: "string"},
					},
				}),
				"suggestions": openapi.ArrayOf(&openapi.Schema{Type: "string"}),
			},
		},
		"OverrideCommand": {
			Type:     "object",
			Required: []string{"status"},
			Properties: map[string]*openapi.Schema{
				"status": status,
			},
		},
		"AuditPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf(openapi.SchemaRef("Audit")),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
