package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/elp-audit/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Audit API", "1.0.0")
	spec.SetDescription("desc")
	spec.AddServer("/api")

	if spec.OpenAPI != "3.1.0" || spec.Info.Title != "Audit API" || spec.Info.Description != "desc" {
		t.Errorf("spec = %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("Servers = %+v", spec.Servers)
	}

	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "PayloadTooLarge", "BadGateway", "ServiceUnavailable"} {
		if _, ok := spec.Components.Responses[name]; !ok {
			t.Errorf("missing response %s", name)
		}
	}
	if _, ok := spec.Components.Schemas["PageRequest"]; !ok {
		t.Error("missing PageRequest schema")
	}
}

func TestSpec_AddOperation(t *testing.T) {
	spec := openapi.NewSpec("t", "1")
	get := &openapi.Operation{Summary: "get"}
	put := &openapi.Operation{Summary: "put"}

	spec.AddOperation("/audits/{id}", "GET", get)
	spec.AddOperation("/audits/{id}", "PUT", put)
	spec.AddOperation("/audits/{id}", "PATCH", &openapi.Operation{})

	item := spec.Paths["/audits/{id}"]
	if item.Get != get || item.Put != put || item.Post != nil {
		t.Errorf("PathItem = %+v", item)
	}
}

func TestMarshalJSON(t *testing.T) {
	spec := openapi.NewSpec("Audit API", "1.0.0")
	spec.AddOperation("/audits", "POST", &openapi.Operation{
		RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
			"file":     {Type: "string", Format: "binary"},
			"language": {Type: "string", Enum: []any{"es", "eu"}},
		}, "file"),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created", "Audit"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	post := doc["paths"].(map[string]any)["/audits"].(map[string]any)["post"].(map[string]any)
	responses := post["responses"].(map[string]any)
	if responses["413"].(map[string]any)["$ref"] != "#/components/responses/PayloadTooLarge" {
		t.Errorf("413 response = %v", responses["413"])
	}

	content := post["requestBody"].(map[string]any)["content"].(map[string]any)
	if _, ok := content["multipart/form-data"]; !ok {
		t.Error("multipart content missing")
	}
}

func TestHelpers(t *testing.T) {
	p := openapi.PathParam("id", "uuid", "Audit ID")
	if p.In != "path" || !p.Required || p.Schema.Format != "uuid" {
		t.Errorf("PathParam() = %+v", p)
	}

	q := openapi.QueryParam("language", "string", "Language", false)
	if q.In != "query" || q.Required {
		t.Errorf("QueryParam() = %+v", q)
	}

	r := openapi.ResponseFile("CSV", "text/csv")
	if r.Content["text/csv"].Schema.Format != "binary" {
		t.Errorf("ResponseFile() = %+v", r)
	}

	s := openapi.IntRange(0, 100)
	if *s.Minimum != 0 || *s.Maximum != 100 {
		t.Errorf("IntRange() = %+v", s)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "openapi.json")
	if err := openapi.WriteJSON(openapi.NewSpec("t", "1"), path); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || !json.Valid(data) {
		t.Errorf("written file invalid: %v", err)
	}
}

func TestServeSpec(t *testing.T) {
	rec := httptest.NewRecorder()
	openapi.ServeSpec([]byte(`{"openapi":"3.1.0"}`)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if rec.Header().Get("Content-Type") != "application/json" || rec.Body.String() != `{"openapi":"3.1.0"}` {
		t.Errorf("response = %q %q", rec.Header().Get("Content-Type"), rec.Body.String())
	}
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Custom")

	cfg := &openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Title != "Custom" || cfg.Description == "" {
		t.Errorf("Finalize() = %+v", cfg)
	}
}
