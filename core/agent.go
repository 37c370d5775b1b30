package core

import "context"

// Agent is a remotely hosted text-generation service ("provider").
//
// Implementations must:
//   - Be safe for concurrent SendMessage calls (parallel fan-out shares agents)
//   - Enforce their own per-call timeout
//   - Return an *AgentCallError (or an error wrapping one) on failure
type Agent interface {
	Name() string
	Capabilities() Capabilities
	SendMessage(ctx context.Context, history []Message, systemPrompt string) (*AgentResponse, error)
	HealthCheck(ctx context.Context) bool
}

// Capabilities describes what an agent is suited for.
type Capabilities struct {
	Roles             []Role `json:"roles,omitempty"`
	ContextWindow     int    `json:"context_window"`
	SupportsStreaming bool   `json:"supports_streaming"`
}

// SupportsRole reports whether the role is listed. An empty role list means
// the agent accepts any role.
func (c Capabilities) SupportsRole(r Role) bool {
	if len(c.Roles) == 0 {
		return true
	}
	for _, role := range c.Roles {
		if role == r {
			return true
		}
	}
	return false
}

// Registry owns the set of known agents.
type Registry interface {
	// Get returns the agent registered under name or ErrAgentNotFound.
	Get(name string) (Agent, error)
	// List returns all agents in registration order.
	List() []Agent
}
