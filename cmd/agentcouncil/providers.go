package main

import (
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentcouncil/agent"
	"github.com/hupe1980/agentcouncil/config"
	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
	"github.com/hupe1980/agentcouncil/meeting"
	"github.com/hupe1980/agentcouncil/model"
	"github.com/hupe1980/agentcouncil/model/anthropic"
	"github.com/hupe1980/agentcouncil/model/openai"
)

// buildRegistry registers one ModelAgent per configured provider, in file
// order.
func buildRegistry(cfg *config.Config, logger logging.Logger) (*agent.Registry, error) {
	registry := agent.NewRegistry()

	for _, p := range cfg.Providers {
		llm, err := newModel(p)
		if err != nil {
			return nil, err
		}

		roles := make([]core.Role, 0, len(p.Roles))
		for _, r := range p.Roles {
			role, err := meeting.ParseRole(r)
			if err != nil {
				return nil, fmt.Errorf("provider %s: %w", p.Name, err)
			}
			roles = append(roles, role)
		}

		a := agent.NewModelAgent(p.Name, llm, func(o *agent.ModelAgentOptions) {
			o.Roles = roles
			o.Timeout = p.Timeout
			o.Logger = logger
			if p.ContextWindow > 0 {
				o.ContextWindow = p.ContextWindow
			}
		})
		if err := registry.Register(a); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func newModel(p config.ProviderConfig) (model.Model, error) {
	switch p.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = p.APIKey()
			if p.Model != "" {
				o.Model = anthropicsdk.Model(p.Model)
			}
			if p.Temperature != nil {
				o.Temperature = *p.Temperature
			}
			if p.MaxTokens > 0 {
				o.MaxTokens = int64(p.MaxTokens)
			}
		}), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = p.APIKey()
			if p.Model != "" {
				o.Model = p.Model
			}
			if p.Temperature != nil {
				o.Temperature = *p.Temperature
			}
			if p.MaxTokens > 0 {
				o.MaxCompletionTokens = int64(p.MaxTokens)
			}
		}), nil
	case config.ProviderMock:
		name := p.Model
		if name == "" {
			name = "mock-" + p.Name
		}
		return model.NewMockModel(name), nil
	default:
		return nil, fmt.Errorf("provider %s: unknown provider %q", p.Name, p.Provider)
	}
}
