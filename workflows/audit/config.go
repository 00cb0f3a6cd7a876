package audit

import (
	"fmt"

	"github.com/JaimeStill/elp-audit/pkg/envvar"
	"github.com/JaimeStill/elp-audit/pkg/mediameta"
	"github.com/JaimeStill/elp-audit/pkg/payload"
)

// Config bounds the work done per audit.
type Config struct {
	MaxMedia        int `toml:"max_media"`
	MaxPayloadChars int `toml:"max_payload_chars"`
}

// Env maps environment variable names for audit configuration.
type Env struct {
	MaxMedia        string
	MaxPayloadChars string
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxMedia != 0 {
		c.MaxMedia = overlay.MaxMedia
	}
	if overlay.MaxPayloadChars != 0 {
		c.MaxPayloadChars = overlay.MaxPayloadChars
	}
}

func (c *Config) loadDefaults() {
	if c.MaxMedia == 0 {
		c.MaxMedia = mediameta.MaxMedia
	}
	if c.MaxPayloadChars == 0 {
		c.MaxPayloadChars = payload.MaxChars
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.Int(env.MaxMedia, &c.MaxMedia)
	envvar.Int(env.MaxPayloadChars, &c.MaxPayloadChars)
}

func (c *Config) validate() error {
	if c.MaxMedia < 1 {
		return fmt.Errorf("max_media must be positive")
	}
	if c.MaxPayloadChars < 1 {
		return fmt.Errorf("max_payload_chars must be positive")
	}
	return nil
}
