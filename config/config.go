// Package config loads the YAML configuration of an agentcouncil deployment
// and watches it for changes.
//
// A minimal file:
//
//	providers:
//	  - name: claude
//	    provider: anthropic
//	    api_key_env: ANTHROPIC_API_KEY
//	  - name: gpt
//	    provider: openai
//	    api_key_env: OPENAI_API_KEY
//	assignments:
//	  architect: claude
//	  developer: gpt
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
	"github.com/hupe1980/agentcouncil/meeting"
	"github.com/hupe1980/agentcouncil/strategy"
	"gopkg.in/yaml.v3"
)

// Supported provider kinds.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderMock      = "mock"
)

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StrategyConfig tunes the strategy engine.
type StrategyConfig struct {
	Default        string `yaml:"default"`
	MaxRounds      int    `yaml:"max_rounds"`
	MaxConcurrency int    `yaml:"max_concurrency"`
}

// MeetingConfig tunes the meeting scheduler.
type MeetingConfig struct {
	MaxTurns int `yaml:"max_turns"`
}

// ProviderConfig declares one agent backed by a provider.
type ProviderConfig struct {
	Name          string        `yaml:"name"`
	Provider      string        `yaml:"provider"`
	Model         string        `yaml:"model,omitempty"`
	APIKeyEnv     string        `yaml:"api_key_env,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	Temperature   *float64      `yaml:"temperature,omitempty"`
	MaxTokens     int           `yaml:"max_tokens,omitempty"`
	ContextWindow int           `yaml:"context_window,omitempty"`
	Roles         []string      `yaml:"roles,omitempty"`
}

// APIKey resolves the provider's API key from the environment.
func (p ProviderConfig) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}

// StoreConfig selects result persistence. An empty path keeps results in
// memory.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Config models the configuration file.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Strategy    StrategyConfig    `yaml:"strategy"`
	Meeting     MeetingConfig     `yaml:"meeting"`
	Providers   []ProviderConfig  `yaml:"providers"`
	Assignments map[string]string `yaml:"assignments,omitempty"`
	Store       StoreConfig       `yaml:"store"`
}

// Default returns the configuration used when no file is given: a single
// mock provider.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "json"},
		Strategy: StrategyConfig{
			Default:   string(core.StrategyCollaborative),
			MaxRounds: strategy.DefaultMaxRounds,
		},
		Meeting: MeetingConfig{MaxTurns: meeting.DefaultMaxTurns},
		Providers: []ProviderConfig{
			{Name: "mock", Provider: ProviderMock, Timeout: 60 * time.Second},
		},
		Assignments: map[string]string{},
	}
}

// Load reads path onto the defaults and validates the result. An empty path
// returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML onto the defaults and validates the result. A file that
// declares providers replaces the default mock provider.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Providers = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Providers) == 0 {
		c.Providers = Default().Providers
	}
	for i := range c.Providers {
		p := &c.Providers[i]
		p.Name = strings.TrimSpace(p.Name)
		p.Provider = strings.ToLower(strings.TrimSpace(p.Provider))
		if p.Timeout <= 0 {
			p.Timeout = 60 * time.Second
		}
	}
	if c.Assignments == nil {
		c.Assignments = map[string]string{}
	}
}

// Validate reports every configuration problem found.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if c.Strategy.Default != "" {
		if _, err := core.ParseStrategy(c.Strategy.Default); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Strategy.MaxRounds < 0 {
		errs = append(errs, fmt.Errorf("strategy.max_rounds must not be negative"))
	}
	if c.Strategy.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("strategy.max_concurrency must not be negative"))
	}
	if c.Meeting.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("meeting.max_turns must not be negative"))
	}

	names := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		switch {
		case p.Name == "":
			errs = append(errs, fmt.Errorf("providers[%d]: name is required", i))
		case names[p.Name]:
			errs = append(errs, fmt.Errorf("providers[%d]: duplicate name %q", i, p.Name))
		}
		names[p.Name] = true

		switch p.Provider {
		case ProviderAnthropic, ProviderOpenAI, ProviderMock:
		default:
			errs = append(errs, fmt.Errorf("providers[%d]: unknown provider %q", i, p.Provider))
		}
		for _, r := range p.Roles {
			if _, err := meeting.ParseRole(r); err != nil {
				errs = append(errs, fmt.Errorf("providers[%d]: %w", i, err))
			}
		}
	}

	for role, name := range c.Assignments {
		if _, err := meeting.ParseRole(role); err != nil {
			errs = append(errs, fmt.Errorf("assignments: %w", err))
		}
		if !names[name] {
			errs = append(errs, fmt.Errorf("assignments: %s: %w: %q", role, core.ErrAgentNotFound, name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// RoleAssignments converts the assignment table to typed roles.
func (c *Config) RoleAssignments() map[core.Role]string {
	out := make(map[core.Role]string, len(c.Assignments))
	for role, name := range c.Assignments {
		if r, err := meeting.ParseRole(role); err == nil {
			out[r] = name
		}
	}
	return out
}

// DefaultStrategy returns the configured default strategy.
func (c *Config) DefaultStrategy() core.StrategyKind {
	if k, err := core.ParseStrategy(c.Strategy.Default); err == nil {
		return k
	}
	return core.StrategyCollaborative
}
