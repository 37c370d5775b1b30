package decision

import (
	"strings"
	"sync"

	"github.com/hupe1980/agentcouncil/core"
)

// Log is a process-local, append-only decision log.
//
// Concurrency: protected by RWMutex. Search is a linear, case-insensitive
// substring scan over title, description and rationale.
type Log struct {
	mu        sync.RWMutex
	decisions []core.Decision
	byMeeting map[string][]int
}

// NewLog creates an empty decision log.
func NewLog() *Log {
	return &Log{byMeeting: make(map[string][]int)}
}

// Add appends decisions in order.
func (l *Log) Add(decisions ...core.Decision) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range decisions {
		l.byMeeting[d.MeetingID] = append(l.byMeeting[d.MeetingID], len(l.decisions))
		l.decisions = append(l.decisions, clone(d))
	}
}

// All returns every decision in insertion order.
func (l *Log) All() []core.Decision {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]core.Decision, len(l.decisions))
	for i, d := range l.decisions {
		out[i] = clone(d)
	}
	return out
}

// ByMeeting returns the decisions of one meeting.
func (l *Log) ByMeeting(meetingID string) []core.Decision {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.byMeeting[meetingID]
	out := make([]core.Decision, len(idx))
	for i, n := range idx {
		out[i] = clone(l.decisions[n])
	}
	return out
}

// ByStage returns the decisions filed under stage.
func (l *Log) ByStage(stage core.Stage) []core.Decision {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []core.Decision
	for _, d := range l.decisions {
		if d.Stage == stage {
			out = append(out, clone(d))
		}
	}
	return out
}

// Search returns up to limit decisions mentioning query. A limit <= 0
// returns every match.
func (l *Log) Search(query string, limit int) []core.Decision {
	l.mu.RLock()
	defer l.mu.RUnlock()
	q := strings.ToLower(query)
	var out []core.Decision
	for _, d := range l.decisions {
		if limit > 0 && len(out) >= limit {
			break
		}
		if q == "" ||
			strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(strings.ToLower(d.Description), q) ||
			strings.Contains(strings.ToLower(d.Rationale), q) {
			out = append(out, clone(d))
		}
	}
	return out
}

// Len returns the number of logged decisions.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.decisions)
}

func clone(d core.Decision) core.Decision {
	d.Alternatives = append([]string{}, d.Alternatives...)
	return d
}
