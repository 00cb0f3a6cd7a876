// Package scalar serves the interactive API reference for the audit API.
package scalar

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/JaimeStill/elp-audit/pkg/module"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type page struct {
	Title   string
	SpecURL string
}

// NewModule creates a module at prefix rendering the reference page for the
// OpenAPI document at specURL.
func NewModule(prefix, title, specURL string) (*module.Module, error) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, page{Title: title, SpecURL: specURL}); err != nil {
		return nil, fmt.Errorf("render scalar index: %w", err)
	}
	body := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})

	return module.New(prefix, mux), nil
}
