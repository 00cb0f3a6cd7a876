package collaborator

import (
	"fmt"
	"maps"
	"time"

	"github.com/JaimeStill/elp-audit/pkg/envvar"
)

// Config holds the collaborator agent and resilience settings.
// Agent is a go-agents agent configuration expressed as a TOML table.
type Config struct {
	Agent           map[string]any `toml:"agent"`
	Token           string         `toml:"token"`
	Timeout         string         `toml:"timeout"`
	BreakerFailures int            `toml:"breaker_failures"`
	BreakerCooldown string         `toml:"breaker_cooldown"`
}

// Env maps environment variable names for collaborator configuration.
type Env struct {
	Token           string
	Timeout         string
	BreakerFailures string
	BreakerCooldown string
}

// TimeoutDuration returns the per-audit request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// BreakerCooldownDuration returns how long the breaker stays open.
func (c *Config) BreakerCooldownDuration() time.Duration {
	d, _ := time.ParseDuration(c.BreakerCooldown)
	return d
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
	if overlay.Agent != nil {
		if c.Agent == nil {
			c.Agent = make(map[string]any, len(overlay.Agent))
		}
		maps.Copy(c.Agent, overlay.Agent)
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.BreakerFailures != 0 {
		c.BreakerFailures = overlay.BreakerFailures
	}
	if overlay.BreakerCooldown != "" {
		c.BreakerCooldown = overlay.BreakerCooldown
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "5m"
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 3
	}
	if c.BreakerCooldown == "" {
		c.BreakerCooldown = "1m"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(env.Token, &c.Token)
	envvar.String(env.Timeout, &c.Timeout)
	envvar.Int(env.BreakerFailures, &c.BreakerFailures)
	envvar.String(env.BreakerCooldown, &c.BreakerCooldown)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.BreakerCooldown); err != nil {
		return fmt.Errorf("invalid breaker_cooldown: %w", err)
	}
	if c.BreakerFailures < 1 {
		return fmt.Errorf("breaker_failures must be positive")
	}
	return nil
}
