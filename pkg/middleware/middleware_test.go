package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/elp-audit/pkg/middleware"
)

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	c := middleware.New()
	c.Use(tag("first"))
	c.Use(tag("second"))

	c.Apply(ok()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second" {
		t.Errorf("order = %v", order)
	}
}

func TestCORS(t *testing.T) {
	enabled := &middleware.CORSConfig{Enabled: true, Origins: []string{"http://localhost:3000"}}
	if err := enabled.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	tests := []struct {
		name       string
		cfg        *middleware.CORSConfig
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"disabled", &middleware.CORSConfig{Origins: []string{"http://localhost:3000"}}, "GET", "http://localhost:3000", "", 200},
		{"no origins", &middleware.CORSConfig{Enabled: true}, "GET", "http://localhost:3000", "", 200},
		{"allowed", enabled, "GET", "http://localhost:3000", "http://localhost:3000", 200},
		{"disallowed", enabled, "GET", "http://evil.example", "", 200},
		{"preflight", enabled, "OPTIONS", "http://localhost:3000", "http://localhost:3000", 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			middleware.CORS(tt.cfg)(ok()).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestCORS_Headers(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: true, Origins: []string{"http://a"}, AllowCredentials: true}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://a")
	rec := httptest.NewRecorder()
	middleware.CORS(cfg)(ok()).ServeHTTP(rec, req)

	h := rec.Header()
	if h.Get("Access-Control-Allow-Methods") != "GET, POST, PUT, DELETE, OPTIONS" {
		t.Errorf("Allow-Methods = %q", h.Get("Access-Control-Allow-Methods"))
	}
	if h.Get("Access-Control-Expose-Headers") != "Content-Disposition" {
		t.Errorf("Expose-Headers = %q", h.Get("Access-Control-Expose-Headers"))
	}
	if h.Get("Access-Control-Allow-Credentials") != "true" || h.Get("Access-Control-Max-Age") != "3600" {
		t.Errorf("credentials/max-age = %q/%q", h.Get("Access-Control-Allow-Credentials"), h.Get("Access-Control-Max-Age"))
	}
}

func TestCORSConfig_Finalize_Env(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a, http://b")

	cfg := &middleware.CORSConfig{}
	if err := cfg.Finalize(&middleware.CORSEnv{Enabled: "TEST_CORS_ENABLED", Origins: "TEST_CORS_ORIGINS"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if !cfg.Enabled || len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b" {
		t.Errorf("Finalize() = %+v", cfg)
	}
}

func TestCORSConfig_Merge(t *testing.T) {
	base := &middleware.CORSConfig{Enabled: true, Origins: []string{"http://a"}, MaxAge: 3600}
	base.Merge(&middleware.CORSConfig{Enabled: false, MaxAge: 60})

	if base.Enabled || base.MaxAge != 60 || len(base.Origins) != 1 {
		t.Errorf("Merge() = %+v", base)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/audits?page=2", nil))

	out := buf.String()
	for _, want := range []string{"msg=request", "method=GET", "uri=\"/audits?page=2\"", "status=404", "duration="} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestTrimSlash(t *testing.T) {
	tests := []struct {
		path     string
		wantCode int
		wantLoc  string
	}{
		{"/", 200, ""},
		{"/audits", 200, ""},
		{"/audits/", 301, "/audits"},
		{"/audits/?page=2", 301, "/audits?page=2"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			middleware.TrimSlash()(ok()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
}
