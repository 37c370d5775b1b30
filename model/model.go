package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentcouncil/core"
)

// Message is a normalized provider message. Role is user or assistant; the
// system prompt travels separately in Request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request captures the normalized model input.
type Request struct {
	SystemPrompt string    `json:"system_prompt"`
	Messages     []Message `json:"messages"`
	Stream       bool      `json:"stream,omitempty"`
}

// Response is a (partial or final) chunk emitted by a model.
type Response struct {
	ID           string           `json:"id"`
	Partial      bool             `json:"partial"`
	Content      string           `json:"content"`
	Model        string           `json:"model,omitempty"`
	FinishReason string           `json:"finish_reason"`
	Usage        *core.TokenUsage `json:"usage,omitempty"`
	Raw          any              `json:"-"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name              string `json:"name"`
	Provider          string `json:"provider"` // "openai", "anthropic", "mock"
	SupportsStreaming bool   `json:"supports_streaming"`
}

// Model is the minimal interface required by agents to drive generation.
// Generate must close both channels when done; a terminal failure is sent on
// the error channel.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// APIError carries the HTTP status code of a failed provider request.
type APIError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusCode returns the provider status code carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
// Responses are matched against the text of the last message; unmatched
// prompts get a generic echo. Token usage counts whitespace-separated words.
type MockModel struct {
	info      Info
	mu        sync.Mutex
	responses map[string]string
	calls     []Request
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock", SupportsStreaming: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Calls returns the requests received so far.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Generate implements Model; emits optional streaming word chunks then final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)
		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}
		input := req.Messages[len(req.Messages)-1].Content

		m.mu.Lock()
		full := m.responses[input]
		m.mu.Unlock()
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", input)
		}

		if req.Stream {
			for _, w := range strings.SplitAfter(full, " ") {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Content: w}:
				}
			}
		}

		prompt := len(strings.Fields(req.SystemPrompt))
		for _, msg := range req.Messages {
			prompt += len(strings.Fields(msg.Content))
		}
		completion := len(strings.Fields(full))
		respCh <- Response{
			ID:           core.NewID(),
			Content:      full,
			Model:        m.info.Name,
			FinishReason: "stop",
			Usage:        &core.TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion},
		}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
