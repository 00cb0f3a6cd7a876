package storage

import (
	"fmt"

	"github.com/docker/go-units"

	"github.com/JaimeStill/elp-audit/pkg/envvar"
)

// Config contains blob storage configuration.
type Config struct {
	// BasePath is the root directory for stored packages.
	BasePath string `toml:"base_path"`

	// MaxUploadSize bounds accepted package uploads, in human units ("50MB").
	MaxUploadSize string `toml:"max_upload_size"`

	maxUploadBytes int64
}

// Env maps environment variable names for storage configuration.
type Env struct {
	BasePath      string
	MaxUploadSize string
}

// MaxUploadSizeBytes returns MaxUploadSize parsed during Finalize.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadBytes
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		envvar.String(env.BasePath, &c.BasePath)
		envvar.String(env.MaxUploadSize, &c.MaxUploadSize)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/packages"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *Config) validate() error {
	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadBytes = size
	return nil
}
