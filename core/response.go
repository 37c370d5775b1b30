package core

import (
	"time"
)

// TokenUsage captures token accounting for one or more agent calls.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add returns the element-wise sum of u and o.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
		TotalTokens:      u.TotalTokens + o.TotalTokens,
	}
}

// AgentResponse is produced once per agent call and never mutated.
type AgentResponse struct {
	Content    string        `json:"content"`
	Agent      string        `json:"agent"`
	Model      string        `json:"model"`
	TokensUsed TokenUsage    `json:"tokens_used"`
	Latency    time.Duration `json:"latency"`
	Raw        any           `json:"-"`
}

// SumUsage adds up the token usage of every response.
func SumUsage(responses []AgentResponse) TokenUsage {
	var total TokenUsage
	for _, r := range responses {
		total = total.Add(r.TokensUsed)
	}
	return total
}
