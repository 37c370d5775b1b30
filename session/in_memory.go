package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/agentcouncil/core"
)

// ErrNotFound is returned when a session or result is unknown.
var ErrNotFound = errors.New("not found")

// InMemoryStore is a volatile ResultStore implementation storing sessions and
// results in process local maps. It is safe for concurrent access and best
// suited for tests or single-process runs. Returned values are copies so
// callers cannot mutate internal state.
type InMemoryStore struct {
	mu             sync.RWMutex
	sessions       map[string]*core.Session
	orchestrations map[string][]core.OrchestrationResult // sessionID -> results
	meetings       map[string][]core.MeetingResult       // sessionID -> results
	meetingIndex   map[string]core.MeetingResult         // meetingID -> result
}

// NewInMemoryStore constructs an empty in‑memory result store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions:       make(map[string]*core.Session),
		orchestrations: make(map[string][]core.OrchestrationResult),
		meetings:       make(map[string][]core.MeetingResult),
		meetingIndex:   make(map[string]core.MeetingResult),
	}
}

// SaveSession stores a clone of the provided session snapshot.
func (s *InMemoryStore) SaveSession(session *core.Session) error {
	clone := session.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[clone.ID] = clone
	return nil
}

// Get returns a clone of a stored session.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return sess.Clone(), nil
}

// SaveOrchestration appends an orchestration result to the session's history.
func (s *InMemoryStore) SaveOrchestration(sessionID string, r *core.OrchestrationResult) error {
	cp := *r
	cp.Responses = append([]core.AgentResponse(nil), r.Responses...)
	cp.Conversation = r.Conversation.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orchestrations[sessionID] = append(s.orchestrations[sessionID], cp)
	return nil
}

// Orchestrations returns the orchestration results recorded for a session.
func (s *InMemoryStore) Orchestrations(sessionID string) []core.OrchestrationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.OrchestrationResult(nil), s.orchestrations[sessionID]...)
}

// SaveMeeting appends a meeting result to the session's history and indexes
// it by meeting id.
func (s *InMemoryStore) SaveMeeting(sessionID string, r *core.MeetingResult) error {
	cp := cloneMeeting(*r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[sessionID] = append(s.meetings[sessionID], cp)
	s.meetingIndex[cp.ID] = cp
	return nil
}

// Meetings returns the meeting results recorded for a session.
func (s *InMemoryStore) Meetings(sessionID string) []core.MeetingResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.MeetingResult, len(s.meetings[sessionID]))
	for i, m := range s.meetings[sessionID] {
		out[i] = cloneMeeting(m)
	}
	return out
}

// Meeting returns one meeting result by id.
func (s *InMemoryStore) Meeting(meetingID string) (*core.MeetingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetingIndex[meetingID]
	if !ok {
		return nil, fmt.Errorf("meeting %s: %w", meetingID, ErrNotFound)
	}
	cp := cloneMeeting(m)
	return &cp, nil
}

// Decisions returns the decisions of a stored meeting.
func (s *InMemoryStore) Decisions(meetingID string) ([]core.Decision, error) {
	m, err := s.Meeting(meetingID)
	if err != nil {
		return nil, err
	}
	return m.Decisions, nil
}

func cloneMeeting(m core.MeetingResult) core.MeetingResult {
	m.Agenda.Participants = append([]core.Role(nil), m.Agenda.Participants...)
	m.Turns = append([]core.MeetingTurn(nil), m.Turns...)
	m.Artifacts = append([]core.Artifact(nil), m.Artifacts...)
	decisions := make([]core.Decision, len(m.Decisions))
	for i, d := range m.Decisions {
		d.Alternatives = append([]string{}, d.Alternatives...)
		decisions[i] = d
	}
	m.Decisions = decisions
	return m
}
