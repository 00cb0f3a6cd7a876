package collaborator_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/elp-audit/pkg/collaborator"
	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func spanishRubric(t *testing.T) *rubric.Rubric {
	t.Helper()
	catalog, err := rubric.Load()
	if err != nil {
		t.Fatalf("rubric.Load() error = %v", err)
	}
	rb, err := catalog.Get(rubric.Spanish)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	return rb
}

func reportJSON(t *testing.T, status string) string {
	t.Helper()
	criteria := make([]any, 0, report.CriteriaCount)
	for id := 1; id <= report.CriteriaCount; id++ {
		criteria = append(criteria, map[string]any{
			"id":          id,
			"name":        fmt.Sprintf("%d. criterio", id),
			"status":      status,
			"observation": "ok",
			"items":       []any{},
			"suggestions": []any{},
		})
	}
	data, err := json.Marshal(map[string]any{
		"overallScore":    7,
		"summary":         "resumen",
		"criteriaResults": criteria,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestAuditor_Audit(t *testing.T) {
	rb := spanishRubric(t)
	body := reportJSON(t, "WARNING")

	tests := []struct {
		name     string
		response string
	}{
		{"raw", body},
		{"fenced", "Aquí está:\n```json\n" + body + "\n```"},
		{"fenced without language", "```\n" + body + "\n```"},
		{"surrounded", "Resultado: " + body + " fin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPrompt, gotPayload string
			client := collaborator.ClientFunc(func(ctx context.Context, prompt, payload string) (string, error) {
				gotPrompt, gotPayload = prompt, payload
				return tt.response, nil
			})

			r, err := collaborator.NewAuditor(client, discardLogger()).Audit(context.Background(), "unit.elp", "<xml/>", rb)
			if err != nil {
				t.Fatalf("Audit() error = %v", err)
			}

			if r.AnalyzedFileName != "unit.elp" {
				t.Errorf("AnalyzedFileName = %q", r.AnalyzedFileName)
			}
			if r.OverallScore != 50 {
				t.Errorf("OverallScore = %d, want recomputed 50", r.OverallScore)
			}
			if gotPayload != "<xml/>" {
				t.Errorf("payload = %q", gotPayload)
			}
			if !strings.HasPrefix(gotPrompt, strings.TrimSpace(rb.Prompt)) || !strings.Contains(gotPrompt, "criteriaResults") {
				t.Error("prompt missing rubric instructions or schema")
			}
		})
	}
}

func TestAuditor_Audit_Failures(t *testing.T) {
	rb := spanishRubric(t)
	clientErr := errors.New("connection reset")

	tests := []struct {
		name     string
		response string
		err      error
		wantIs   error
	}{
		{"client error", "", clientErr, clientErr},
		{"not json", "no puedo evaluar este paquete", nil, nil},
		{"schema", `{"overallScore": 10, "summary": "x", "criteriaResults": []}`, nil, report.ErrSchema},
		{"invalid status", reportJSON(t, "MAYBE"), nil, report.ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := collaborator.ClientFunc(func(ctx context.Context, prompt, payload string) (string, error) {
				return tt.response, tt.err
			})

			_, err := collaborator.NewAuditor(client, discardLogger()).Audit(context.Background(), "unit.elp", "", rb)
			if !errors.Is(err, collaborator.ErrCollaborator) {
				t.Fatalf("Audit() error = %v, want ErrCollaborator", err)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Audit() error = %v, want %v", err, tt.wantIs)
			}
		})
	}
}

func TestAuditor_Audit_RequiresRubric(t *testing.T) {
	client := collaborator.ClientFunc(func(ctx context.Context, prompt, payload string) (string, error) {
		t.Fatal("client called without rubric")
		return "", nil
	})

	_, err := collaborator.NewAuditor(client, discardLogger()).Audit(context.Background(), "unit.elp", "", nil)
	if !errors.Is(err, collaborator.ErrCollaborator) {
		t.Errorf("Audit() error = %v, want ErrCollaborator", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"object", `  {"a":1}  `, `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose", "sorry", "", true},
		{"broken", "```json\n{\"a\":\n```", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collaborator.ExtractJSON(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	calls := 0
	next := collaborator.ClientFunc(func(ctx context.Context, prompt, payload string) (string, error) {
		calls++
		return "", errors.New("upstream 500")
	})

	client := collaborator.NewBreaker(next, collaborator.BreakerSettings{Failures: 2, Cooldown: time.Minute}, discardLogger())

	for range 2 {
		if _, err := client.Audit(context.Background(), "p", "x"); err == nil {
			t.Fatal("Audit() error = nil, want upstream error")
		}
	}

	_, err := client.Audit(context.Background(), "p", "x")
	if !errors.Is(err, collaborator.ErrUnavailable) {
		t.Fatalf("Audit() error = %v, want ErrUnavailable", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (no call while open, no retry)", calls)
	}
}

func TestBreaker_IgnoresCancellation(t *testing.T) {
	calls := 0
	next := collaborator.ClientFunc(func(ctx context.Context, prompt, payload string) (string, error) {
		calls++
		return "", ctx.Err()
	})

	client := collaborator.NewBreaker(next, collaborator.BreakerSettings{Failures: 1, Cooldown: time.Minute}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 3 {
		if _, err := client.Audit(ctx, "p", "x"); !errors.Is(err, context.Canceled) {
			t.Fatalf("Audit() error = %v, want context.Canceled", err)
		}
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestBreaker_PassesResponse(t *testing.T) {
	next := collaborator.ClientFunc(func(ctx context.Context, prompt, payload string) (string, error) {
		return prompt + ":" + payload, nil
	})

	client := collaborator.NewBreaker(next, collaborator.BreakerSettings{}, discardLogger())
	got, err := client.Audit(context.Background(), "p", "x")
	if err != nil || got != "p:x" {
		t.Errorf("Audit() = %q, %v", got, err)
	}
}

func TestNewAgentClient_MissingCredential(t *testing.T) {
	cfg := &collaborator.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if _, err := collaborator.NewAgentClient(cfg, discardLogger()); !errors.Is(err, collaborator.ErrMissingCredential) {
		t.Errorf("NewAgentClient() error = %v, want ErrMissingCredential", err)
	}
}

func TestWrapPayload(t *testing.T) {
	got := collaborator.WrapPayload("<a/>")
	if !strings.HasPrefix(got, "--- INICIO/HASIERA CONTENIDO XML (eXeLearning) ---\n<a/>") {
		t.Errorf("WrapPayload() prefix = %q", got)
	}
	if !strings.HasSuffix(got, "<a/>\n--- FIN/AMAIERA CONTENIDO XML ---") {
		t.Errorf("WrapPayload() suffix = %q", got)
	}
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_COLLABORATOR_TOKEN", "secret")
	t.Setenv("TEST_COLLABORATOR_BREAKER_FAILURES", "5")

	cfg := &collaborator.Config{}
	err := cfg.Finalize(&collaborator.Env{
		Token:           "TEST_COLLABORATOR_TOKEN",
		BreakerFailures: "TEST_COLLABORATOR_BREAKER_FAILURES",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Token != "secret" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.BreakerFailures != 5 {
		t.Errorf("BreakerFailures = %d, want 5", cfg.BreakerFailures)
	}
	if cfg.TimeoutDuration() != 5*time.Minute {
		t.Errorf("TimeoutDuration() = %v, want 5m", cfg.TimeoutDuration())
	}
}

func TestConfig_Finalize_Invalid(t *testing.T) {
	cfg := &collaborator.Config{Timeout: "soon"}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize() error = nil, want error")
	}
}

func TestConfig_Merge(t *testing.T) {
	base := &collaborator.Config{
		Agent:   map[string]any{"name": "auditor"},
		Timeout: "5m",
	}
	base.Merge(&collaborator.Config{
		Agent:   map[string]any{"provider": map[string]any{"name": "ollama"}},
		Timeout: "90s",
	})

	if base.Agent["name"] != "auditor" || base.Agent["provider"] == nil {
		t.Errorf("Agent = %v", base.Agent)
	}
	if base.Timeout != "90s" {
		t.Errorf("Timeout = %q", base.Timeout)
	}
}

func TestWithTimeout(t *testing.T) {
	next := collaborator.ClientFunc(func(ctx context.Context, prompt, payload string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := collaborator.WithTimeout(next, 10*time.Millisecond).Audit(context.Background(), "p", "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Audit() error = %v, want DeadlineExceeded", err)
	}
}

func TestUnconfigured(t *testing.T) {
	_, err := collaborator.NewAuditor(collaborator.Unconfigured(), discardLogger()).
		Audit(context.Background(), "unit.elp", "", spanishRubric(t))

	if !errors.Is(err, collaborator.ErrMissingCredential) || !errors.Is(err, collaborator.ErrCollaborator) {
		t.Errorf("Audit() error = %v, want ErrMissingCredential wrapped in ErrCollaborator", err)
	}
}
