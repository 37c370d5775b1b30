package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentcouncil/core"
)

// Call records one SendMessage invocation.
type Call struct {
	History      []core.Message
	SystemPrompt string
}

// ReplyFunc computes a reply from the call inputs.
type ReplyFunc func(call Call) (string, error)

// ScriptedAgent is a deterministic core.Agent for tests.
//
// Replies are served from the queue first; once exhausted Reply is used, and
// without Reply the agent echoes "<name> reply N". Every reply reports 10
// prompt and 5 completion tokens.
type ScriptedAgent struct {
	name  string
	caps  core.Capabilities
	Reply ReplyFunc
	// Err, when set, fails every call.
	Err     error
	Healthy bool

	mu    sync.Mutex
	queue []string
	calls []Call
}

// NewScriptedAgent creates a healthy agent that answers replies in order.
func NewScriptedAgent(name string, replies ...string) *ScriptedAgent {
	return &ScriptedAgent{
		name:    name,
		caps:    core.Capabilities{ContextWindow: 8000},
		Healthy: true,
		queue:   append([]string(nil), replies...),
	}
}

// NewFailingAgent creates an agent whose every call fails with err.
func NewFailingAgent(name string, err error) *ScriptedAgent {
	a := NewScriptedAgent(name)
	a.Err = err
	a.Healthy = false
	return a
}

// WithRoles sets the advertised roles.
func (a *ScriptedAgent) WithRoles(roles ...core.Role) *ScriptedAgent {
	a.caps.Roles = roles
	return a
}

// Name implements core.Agent.
func (a *ScriptedAgent) Name() string { return a.name }

// Capabilities implements core.Agent.
func (a *ScriptedAgent) Capabilities() core.Capabilities { return a.caps }

// SendMessage implements core.Agent.
func (a *ScriptedAgent) SendMessage(ctx context.Context, history []core.Message, systemPrompt string) (*core.AgentResponse, error) {
	call := Call{History: append([]core.Message(nil), history...), SystemPrompt: systemPrompt}

	a.mu.Lock()
	a.calls = append(a.calls, call)
	n := len(a.calls)
	var next string
	var queued bool
	if len(a.queue) > 0 {
		next, queued = a.queue[0], true
		a.queue = a.queue[1:]
	}
	a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, core.NewAgentCallError(a.name, "", err)
	}
	if a.Err != nil {
		return nil, core.NewAgentCallError(a.name, "", a.Err)
	}

	content := next
	if !queued {
		if a.Reply != nil {
			var err error
			if content, err = a.Reply(call); err != nil {
				return nil, core.NewAgentCallError(a.name, "", err)
			}
		} else {
			content = fmt.Sprintf("%s reply %d", a.name, n)
		}
	}

	return &core.AgentResponse{
		Content:    content,
		Agent:      a.name,
		Model:      "scripted",
		TokensUsed: core.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

// HealthCheck implements core.Agent.
func (a *ScriptedAgent) HealthCheck(context.Context) bool { return a.Healthy }

// Calls returns a copy of the recorded calls.
func (a *ScriptedAgent) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Call(nil), a.calls...)
}

// CallCount returns the number of SendMessage invocations.
func (a *ScriptedAgent) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}
