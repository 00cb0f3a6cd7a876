package scalar_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/elp-audit/pkg/module"
	"github.com/JaimeStill/elp-audit/web/scalar"
)

func TestNewModule(t *testing.T) {
	m, err := scalar.NewModule("/scalar", "Audit API", "/api/openapi.json")
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/scalar", http.StatusOK},
		{"/scalar/", http.StatusOK},
		{"/scalar/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			body := rec.Body.String()
			if !strings.Contains(body, `data-url="/api/openapi.json"`) || !strings.Contains(body, "<title>Audit API</title>") {
				t.Errorf("body = %s", body)
			}
		})
	}
}
