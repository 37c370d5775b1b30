package core

import (
	"sync"
	"time"
)

// SessionStatus is the lifecycle state of a Session.
type SessionStatus string

// Session states.
const (
	SessionIdle      SessionStatus = "idle"
	SessionRunning   SessionStatus = "running"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
	SessionError     SessionStatus = "error"
)

// Session is the facade's record of the current orchestration session. It is
// safe for concurrent access.
//
// Contract:
//   - Mutations update the Updated timestamp
//   - Accessors return defensive copies
//   - Clone performs deep copies of maps/slices for safe divergence
type Session struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Status        SessionStatus   `json:"status"`
	Strategy      StrategyKind    `json:"strategy"`
	Assignments   map[Role]string `json:"assignments"`
	Conversations []Conversation  `json:"conversations"`
	Pipeline      *PipelineResult `json:"pipeline,omitempty"`
	Created       time.Time       `json:"created"`
	Updated       time.Time       `json:"updated"`
	mu            sync.RWMutex
}

// NewSession creates an idle session.
func NewSession(name string, strategy StrategyKind) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:          NewID(),
		Name:        name,
		Status:      SessionIdle,
		Strategy:    strategy,
		Assignments: map[Role]string{},
		Created:     now,
		Updated:     now,
	}
}

// GetStatus returns the current status.
func (s *Session) GetStatus() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// SetStatus updates the status.
func (s *Session) SetStatus(status SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
	s.Updated = time.Now().UTC()
}

// TryStart moves the session to running unless a run is already active.
// It reports whether the transition happened.
func (s *Session) TryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == SessionRunning {
		return false
	}
	s.Status = SessionRunning
	s.Updated = time.Now().UTC()
	return true
}

// SetAssignments replaces the role→agent table snapshot.
func (s *Session) SetAssignments(assignments map[Role]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Assignments = make(map[Role]string, len(assignments))
	for k, v := range assignments {
		s.Assignments[k] = v
	}
	s.Updated = time.Now().UTC()
}

// AddConversation records a completed run's conversation.
func (s *Session) AddConversation(c Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Conversations = append(s.Conversations, c)
	s.Updated = time.Now().UTC()
}

// SetPipeline records the latest pipeline result.
func (s *Session) SetPipeline(p *PipelineResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pipeline = p
	s.Updated = time.Now().UTC()
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:            s.ID,
		Name:          s.Name,
		Status:        s.Status,
		Strategy:      s.Strategy,
		Assignments:   make(map[Role]string, len(s.Assignments)),
		Conversations: make([]Conversation, len(s.Conversations)),
		Pipeline:      s.Pipeline,
		Created:       s.Created,
		Updated:       s.Updated,
	}
	for k, v := range s.Assignments {
		clone.Assignments[k] = v
	}
	for i, c := range s.Conversations {
		clone.Conversations[i] = c.Clone()
	}
	return clone
}
