package collaborator

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/JaimeStill/go-agents/pkg/agent"
	agtconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/elp-audit/pkg/decode"
)

const (
	payloadOpen  = "--- INICIO/HASIERA CONTENIDO XML (eXeLearning) ---\n"
	payloadClose = "\n--- FIN/AMAIERA CONTENIDO XML ---"
)

// AgentClient is a Client backed by a go-agents chat agent.
type AgentClient struct {
	agent  agent.Agent
	logger *slog.Logger
}

// NewAgentClient builds the agent described by cfg and wraps it in a circuit
// breaker. The token is injected into the provider options.
func NewAgentClient(cfg *Config, logger *slog.Logger) (Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingCredential
	}

	agentCfg, err := buildAgentConfig(cfg.Agent, cfg.Token)
	if err != nil {
		return nil, err
	}

	a, err := agent.New(agentCfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	client := &AgentClient{
		agent:  a,
		logger: logger.With("client", "agent"),
	}

	return NewBreaker(client, BreakerSettings{
		Failures: uint32(cfg.BreakerFailures),
		Cooldown: cfg.BreakerCooldownDuration(),
	}, logger), nil
}

func (c *AgentClient) Audit(ctx context.Context, prompt, payload string) (string, error) {
	opts := map[string]any{
		"system_prompt": prompt,
		"temperature":   0,
	}

	resp, err := c.agent.Chat(ctx, WrapPayload(payload), opts)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	content := resp.Content()
	c.logger.Debug("response received", "chars", len(content))
	return content, nil
}

// WrapPayload frames the package content with the bilingual markers the
// collaborator prompt refers to.
func WrapPayload(payload string) string {
	return payloadOpen + payload + payloadClose
}

func buildAgentConfig(raw map[string]any, token string) (*agtconfig.AgentConfig, error) {
	userCfg, err := decode.FromMap[agtconfig.AgentConfig](withToken(raw, token))
	if err != nil {
		return nil, fmt.Errorf("decode agent config: %w", err)
	}

	cfg := agtconfig.DefaultAgentConfig()
	cfg.Merge(&userCfg)
	return &cfg, nil
}

func withToken(raw map[string]any, token string) map[string]any {
	tree := maps.Clone(raw)
	if tree == nil {
		tree = make(map[string]any)
	}

	provider := childMap(tree, "provider")
	options := childMap(provider, "options")
	options["token"] = token
	provider["options"] = options
	tree["provider"] = provider

	return tree
}

func childMap(parent map[string]any, key string) map[string]any {
	if m, ok := parent[key].(map[string]any); ok {
		return maps.Clone(m)
	}
	return make(map[string]any)
}
