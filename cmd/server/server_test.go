package main

import (
	"slices"
	"testing"

	"github.com/JaimeStill/elp-audit/internal/config"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

func TestAuditorAttrs(t *testing.T) {
	t.Chdir("../..")
	t.Setenv(config.EnvServiceEnv, "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	catalog, err := rubric.Default()
	if err != nil {
		t.Fatalf("rubric.Default() error = %v", err)
	}

	attrs := auditorAttrs(cfg, catalog)
	if len(attrs)%2 != 0 {
		t.Fatalf("attrs not key/value pairs: %v", attrs)
	}

	got := make(map[string]any, len(attrs)/2)
	for i := 0; i < len(attrs); i += 2 {
		got[attrs[i].(string)] = attrs[i+1]
	}

	langs, ok := got["languages"].([]rubric.Language)
	if !ok || !slices.Equal(langs, []rubric.Language{rubric.Spanish, rubric.Basque}) {
		t.Errorf("languages = %v", got["languages"])
	}
	if got["max_media"] != 50 {
		t.Errorf("max_media = %v, want 50", got["max_media"])
	}
	if got["max_upload"] != "50MB" {
		t.Errorf("max_upload = %v, want 50MB", got["max_upload"])
	}
	if got["storage"] != cfg.Storage.BasePath {
		t.Errorf("storage = %v, want %q", got["storage"], cfg.Storage.BasePath)
	}
}
