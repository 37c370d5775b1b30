package agent

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/agentcouncil/core"
)

// ErrDuplicateAgent is returned when registering a name twice.
var ErrDuplicateAgent = errors.New("agent already registered")

// Registry is a thread-safe, insertion-ordered set of agents.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]core.Agent
	order  []string
}

// NewRegistry creates a registry pre-populated with agents. Duplicate names
// keep the first registration.
func NewRegistry(agents ...core.Agent) *Registry {
	r := &Registry{agents: make(map[string]core.Agent)}
	for _, a := range agents {
		_ = r.Register(a)
	}
	return r
}

// Register adds an agent. Names must be unique.
func (r *Registry) Register(a core.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[a.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, a.Name())
	}
	r.agents[a.Name()] = a
	r.order = append(r.order, a.Name())
	return nil
}

// Remove deletes an agent and reports whether it was present.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[name]; !exists {
		return false
	}
	delete(r.agents, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the named agent or core.ErrAgentNotFound.
func (r *Registry) Get(name string) (core.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrAgentNotFound, name)
	}
	return a, nil
}

// List returns all agents in registration order.
func (r *Registry) List() []core.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Agent, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.agents[name])
	}
	return out
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
