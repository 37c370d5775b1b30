package core

import (
	"fmt"
	"strings"
	"time"
)

// StrategyKind selects one of the strategy engine's execution algorithms.
type StrategyKind string

// Supported strategies.
const (
	StrategyCollaborative StrategyKind = "collaborative"
	StrategySequential    StrategyKind = "sequential"
	StrategyParallel      StrategyKind = "parallel"
	StrategyCompetitive   StrategyKind = "competitive"
)

// Strategies lists every supported strategy in a stable order.
func Strategies() []StrategyKind {
	return []StrategyKind{StrategyCollaborative, StrategySequential, StrategyParallel, StrategyCompetitive}
}

// ParseStrategy converts a user-supplied name into a StrategyKind.
func ParseStrategy(s string) (StrategyKind, error) {
	k := StrategyKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Strategies() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// OrchestrationRequest is constructed by callers and treated as read-only.
type OrchestrationRequest struct {
	Prompt          string       `json:"prompt"`
	Strategy        StrategyKind `json:"strategy"`
	Context         string       `json:"context,omitempty"`
	Files           []string     `json:"files,omitempty"`
	PreferredAgents []string     `json:"preferred_agents,omitempty"`
}

// UserPrompt renders the prompt together with optional context and file list
// as the text of the initial user message.
func (r OrchestrationRequest) UserPrompt() string {
	if r.Context == "" && len(r.Files) == 0 {
		return r.Prompt
	}
	var b strings.Builder
	b.WriteString(r.Prompt)
	if r.Context != "" {
		b.WriteString("\n\nContext:\n")
		b.WriteString(r.Context)
	}
	if len(r.Files) > 0 {
		b.WriteString("\n\nRelevant files:\n")
		for _, f := range r.Files {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// OrchestrationResult is produced exactly once per strategy run.
type OrchestrationResult struct {
	ID           string          `json:"id"`
	Strategy     StrategyKind    `json:"strategy"`
	Responses    []AgentResponse `json:"responses"`
	FinalOutput  string          `json:"final_output"`
	Conversation Conversation    `json:"conversation"`
	Duration     time.Duration   `json:"duration"`
	TokenUsage   TokenUsage      `json:"token_usage"`
}
