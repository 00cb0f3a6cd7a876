package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/elp-audit/pkg/module"
)

func body(t *testing.T, h http.Handler, method, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	data, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(data)
}

func echoPath() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})
}

func TestNew_InvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) did not panic", prefix)
				}
			}()
			module.New(prefix, echoPath())
		})
	}
}

func TestModule_Serve(t *testing.T) {
	m := module.New("/api", echoPath())
	if m.Prefix() != "/api" {
		t.Errorf("Prefix() = %q", m.Prefix())
	}

	tests := []struct {
		path string
		want string
	}{
		{"/api", "/"},
		{"/api/audits", "/audits"},
		{"/api/audits/123/export.csv", "/audits/123/export.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, got := body(t, http.HandlerFunc(m.Serve), http.MethodGet, tt.path)
			if got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModule_MiddlewareOrder(t *testing.T) {
	var order []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	m := module.New("/api", handler)
	for _, name := range []string{"first", "second"} {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	body(t, m.Handler(), http.MethodGet, "/test")

	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestRouter(t *testing.T) {
	r := module.NewRouter()
	r.HandleNative("GET /healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("healthy"))
	})
	r.Mount(module.New("/api", echoPath()))
	r.Mount(module.New("/metrics", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("metrics"))
	})))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"native", "/healthz", 200, "healthy"},
		{"module", "/api/audits", 200, "/audits"},
		{"second module", "/metrics", 200, "metrics"},
		{"trailing slash", "/api/audits/", 200, "/audits"},
		{"module root with slash", "/api/", 200, "/"},
		{"deep trailing slash", "/api/audits/1/criteria/3/", 200, "/audits/1/criteria/3"},
		{"unmatched", "/unknown", 404, ""},
		{"root", "/", 404, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, got := body(t, r, http.MethodGet, tt.path)
			if code != tt.wantStatus {
				t.Errorf("status = %d, want %d", code, tt.wantStatus)
			}
			if tt.wantStatus == 200 && got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}
