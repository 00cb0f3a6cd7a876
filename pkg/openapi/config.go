package openapi

import "github.com/JaimeStill/elp-audit/pkg/envvar"

// Config holds the document metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps environment variable names for OpenAPI configuration.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and loads environment overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "eXeLearning Audit API"
	}
	if c.Description == "" {
		c.Description = "Audits eXeLearning packages against the accessibility and licensing rubric and manages stored audit reports."
	}
	if env != nil {
		envvar.String(env.Title, &c.Title)
		envvar.String(env.Description, &c.Description)
	}
	return nil
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
