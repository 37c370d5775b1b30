package core

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors. Wrapped errors keep these reachable via errors.Is.
var (
	ErrNoAgentsAvailable = errors.New("no agents available")
	ErrAllAgentsFailed   = errors.New("all agents failed")
	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrUnknownRole       = errors.New("unknown role")
	ErrUnknownStage      = errors.New("unknown stage")
	ErrAgentNotFound     = errors.New("agent not found")
	ErrSessionBusy       = errors.New("session already has an active run")
	ErrNoSession         = errors.New("no active session")
)

// AgentErrorKind classifies a provider failure.
type AgentErrorKind string

// Agent failure kinds.
const (
	AgentErrorAuth      AgentErrorKind = "auth"
	AgentErrorRateLimit AgentErrorKind = "rate_limit"
	AgentErrorTimeout   AgentErrorKind = "timeout"
	AgentErrorGeneric   AgentErrorKind = "generic"
)

// AgentCallError wraps a failure returned across the agent boundary.
type AgentCallError struct {
	Agent string
	Kind  AgentErrorKind
	Err   error
}

// NewAgentCallError builds an AgentCallError, deriving the kind from err when
// it is a context deadline.
func NewAgentCallError(agent string, kind AgentErrorKind, err error) *AgentCallError {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = AgentErrorTimeout
	}
	if kind == "" {
		kind = AgentErrorGeneric
	}
	return &AgentCallError{Agent: agent, Kind: kind, Err: err}
}

func (e *AgentCallError) Error() string {
	return fmt.Sprintf("agent %s call failed (%s): %v", e.Agent, e.Kind, e.Err)
}

func (e *AgentCallError) Unwrap() error { return e.Err }

// MeetingError wraps any failure that aborted a meeting.
type MeetingError struct {
	MeetingID string
	Title     string
	Err       error
}

func (e *MeetingError) Error() string {
	return fmt.Sprintf("meeting %q (%s) failed: %v", e.Title, e.MeetingID, e.Err)
}

func (e *MeetingError) Unwrap() error { return e.Err }

// StageError wraps any failure that aborted a pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Describe renders a single human-readable message for the failure category
// of err, suitable for display to end users.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var callErr *AgentCallError
	switch {
	case errors.Is(err, ErrNoAgentsAvailable):
		return "No agents are available. Register or configure at least one provider."
	case errors.Is(err, ErrAllAgentsFailed):
		return "Every agent failed to respond. Check provider status and try again."
	case errors.Is(err, ErrUnknownStrategy):
		return "Unknown strategy. Use collaborative, sequential, parallel or competitive."
	case errors.Is(err, ErrUnknownRole):
		return "Unknown role."
	case errors.Is(err, ErrUnknownStage):
		return "Unknown pipeline stage."
	case errors.Is(err, ErrAgentNotFound):
		return "The requested agent is not registered."
	case errors.Is(err, ErrSessionBusy):
		return "The session is already running. Wait for it to finish or stop it."
	case errors.Is(err, ErrNoSession):
		return "No session is active. Start a session first."
	case errors.As(err, &callErr):
		switch callErr.Kind {
		case AgentErrorAuth:
			return fmt.Sprintf("Authentication with %s failed. Check the API key.", callErr.Agent)
		case AgentErrorRateLimit:
			return fmt.Sprintf("%s is rate limited. Wait before retrying.", callErr.Agent)
		case AgentErrorTimeout:
			return fmt.Sprintf("%s did not answer in time.", callErr.Agent)
		default:
			return fmt.Sprintf("%s returned an error: %v", callErr.Agent, callErr.Err)
		}
	default:
		return err.Error()
	}
}
