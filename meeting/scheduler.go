package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/decision"
	"github.com/hupe1980/agentcouncil/logging"
)

// DefaultMaxTurns is used when an agenda sets no turn ceiling.
const DefaultMaxTurns = 10

// Config tunes meeting execution.
type Config struct {
	MaxTurns int
}

// DefaultConfig returns the scheduler defaults.
func DefaultConfig() Config {
	return Config{MaxTurns: DefaultMaxTurns}
}

// Resolver maps a role to the agent currently assigned to it. It is
// consulted on every turn so assignment changes take effect immediately.
type Resolver interface {
	AgentForRole(role core.Role) (core.Agent, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(role core.Role) (core.Agent, error)

// AgentForRole implements Resolver.
func (f ResolverFunc) AgentForRole(role core.Role) (core.Agent, error) { return f(role) }

// Options configures a Scheduler.
type Options struct {
	Config
	Publisher core.Publisher
	Logger    logging.Logger
}

// Scheduler runs meetings. It holds no per-meeting state and is safe for
// concurrent use.
type Scheduler struct {
	resolver  Resolver
	cfg       Config
	publisher core.Publisher
	logger    logging.Logger
}

// NewScheduler creates a Scheduler resolving agents through resolver.
func NewScheduler(resolver Resolver, optFns ...func(o *Options)) *Scheduler {
	opts := Options{
		Config:    DefaultConfig(),
		Publisher: core.NopPublisher{},
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}

	return &Scheduler{
		resolver:  resolver,
		cfg:       opts.Config,
		publisher: opts.Publisher,
		logger:    opts.Logger,
	}
}

// Roster returns the distinct participants of agenda with the leader first.
func Roster(agenda core.MeetingAgenda) []core.Role {
	out := []core.Role{agenda.Leader}
	seen := map[core.Role]bool{agenda.Leader: true}
	for _, r := range agenda.Participants {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// Schedule returns the speaking order for a meeting of maxTurns turns: the
// leader opens, then ceil(maxTurns/len(roster)) rounds of every other
// participant followed by the leader, cut off at maxTurns.
func Schedule(roster []core.Role, maxTurns int) []core.Role {
	if len(roster) == 0 || maxTurns <= 0 {
		return nil
	}
	leader := roster[0]
	order := []core.Role{leader}
	rounds := (maxTurns + len(roster) - 1) / len(roster)

	for round := 0; round < rounds; round++ {
		for _, r := range roster[1:] {
			if len(order)+1 > maxTurns {
				return order
			}
			order = append(order, r)
		}
		if len(order)+1 > maxTurns {
			return order
		}
		order = append(order, leader)
	}
	return order
}

// meeting is the state of one run, owned by the goroutine executing it.
type meeting struct {
	id       string
	agenda   core.MeetingAgenda
	roster   []core.Role
	maxTurns int
	conv     *core.Conversation
	turns    []core.MeetingTurn
	usage    core.TokenUsage
}

// Run executes agenda and returns the completed meeting. Any failure is
// returned as *core.MeetingError and no result is produced.
func (s *Scheduler) Run(ctx context.Context, agenda core.MeetingAgenda) (*core.MeetingResult, error) {
	m := &meeting{
		id:       core.NewID(),
		agenda:   agenda,
		roster:   Roster(agenda),
		maxTurns: agenda.MaxTurns,
	}
	if m.maxTurns <= 0 {
		m.maxTurns = s.cfg.MaxTurns
	}
	m.agenda.MaxTurns = m.maxTurns

	start := time.Now()
	s.logger.Info("meeting.start", "meeting_id", m.id, "title", agenda.Title, "type", agenda.Type, "participants", len(m.roster))

	if err := validate(agenda); err != nil {
		return nil, s.fail(m, err)
	}

	s.publish(core.EventMeetingStarted, m, map[string]any{
		"type":         string(agenda.Type),
		"leader":       string(agenda.Leader),
		"participants": roleStrings(m.roster),
		"max_turns":    m.maxTurns,
	})

	m.conv = core.NewConversation(core.NewUserMessage(openingMessage(agenda)))

	for _, role := range Schedule(m.roster, m.maxTurns) {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(m, err)
		}
		if err := s.turn(ctx, m, role); err != nil {
			return nil, s.fail(m, err)
		}
	}

	summary, err := s.summarize(ctx, m)
	if err != nil {
		return nil, s.fail(m, err)
	}

	result := &core.MeetingResult{
		ID:         m.id,
		Agenda:     m.agenda,
		Turns:      m.turns,
		Decisions:  decision.Extract(m.id, agenda.Type, m.turns),
		Summary:    summary,
		Artifacts:  ExtractArtifacts(m.turns),
		Duration:   time.Since(start),
		TokenUsage: m.usage,
	}
	if result.Decisions == nil {
		result.Decisions = []core.Decision{}
	}

	for _, d := range result.Decisions {
		s.publish(core.EventMeetingDecision, m, map[string]any{
			"decision_id": d.ID,
			"title":       d.Title,
			"stage":       string(d.Stage),
			"made_by":     string(d.MadeBy),
		})
	}
	s.publish(core.EventMeetingCompleted, m, map[string]any{
		"turns":     len(result.Turns),
		"decisions": len(result.Decisions),
		"artifacts": len(result.Artifacts),
		"tokens":    result.TokenUsage.TotalTokens,
	})

	s.logger.Info("meeting.done",
		"meeting_id", m.id,
		"turns", len(result.Turns),
		"decisions", len(result.Decisions),
		"duration", result.Duration,
	)
	return result, nil
}

func (s *Scheduler) turn(ctx context.Context, m *meeting, role core.Role) error {
	number := len(m.turns) + 1

	a, err := s.resolver.AgentForRole(role)
	if err != nil {
		return fmt.Errorf("turn %d (%s): %w", number, role, err)
	}

	prompt, err := buildSystemPrompt(m.agenda, m.roster, role, number, m.maxTurns)
	if err != nil {
		return fmt.Errorf("turn %d (%s): render prompt: %w", number, role, err)
	}

	resp, err := s.send(ctx, m, a, map[string]any{"turn": number, "role": string(role)}, prompt)
	if err != nil {
		return fmt.Errorf("turn %d (%s): %w", number, role, err)
	}

	m.conv.Append(core.NewAssistantMessage(a.Name(), string(role), resp.Content))
	m.usage = m.usage.Add(resp.TokensUsed)

	t := core.MeetingTurn{
		Number:     number,
		Role:       role,
		Agent:      a.Name(),
		Message:    resp.Content,
		Mentions:   Mentions(resp.Content, m.roster),
		Timestamp:  time.Now().UTC(),
		TokensUsed: resp.TokensUsed,
	}
	m.turns = append(m.turns, t)

	s.publish(core.EventMeetingTurn, m, map[string]any{
		"turn":     t.Number,
		"role":     string(t.Role),
		"agent":    t.Agent,
		"mentions": roleStrings(t.Mentions),
		"tokens":   t.TokensUsed.TotalTokens,
	})
	s.logger.Debug("meeting.turn", "meeting_id", m.id, "turn", t.Number, "role", t.Role, "agent", t.Agent)
	return nil
}

func (s *Scheduler) summarize(ctx context.Context, m *meeting) (string, error) {
	a, err := s.resolver.AgentForRole(m.agenda.Leader)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	resp, err := s.send(ctx, m, a, map[string]any{"phase": "summary", "role": string(m.agenda.Leader)}, summaryPrompt)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	m.usage = m.usage.Add(resp.TokensUsed)
	return resp.Content, nil
}

func (s *Scheduler) fail(m *meeting, err error) error {
	s.publish(core.EventMeetingFailed, m, map[string]any{"error": err.Error()})
	s.logger.Error("meeting.failed", "meeting_id", m.id, "title", m.agenda.Title, "error", err)
	return &core.MeetingError{MeetingID: m.id, Title: m.agenda.Title, Err: err}
}

func (s *Scheduler) publish(t core.EventType, m *meeting, data map[string]any) {
	data["meeting_id"] = m.id
	data["title"] = m.agenda.Title
	s.publisher.Publish(core.NewEvent(t, data))
}

// send calls a over the meeting conversation and reports the call as
// provider events; attrs identify the turn.
func (s *Scheduler) send(ctx context.Context, m *meeting, a core.Agent, attrs map[string]any, systemPrompt string) (*core.AgentResponse, error) {
	event := func(extra map[string]any) map[string]any {
		data := map[string]any{"agent": a.Name()}
		for k, v := range attrs {
			data[k] = v
		}
		for k, v := range extra {
			data[k] = v
		}
		return data
	}

	s.publish(core.EventProviderRequest, m, event(nil))

	resp, err := a.SendMessage(ctx, m.conv.Snapshot(), systemPrompt)
	if err != nil {
		var callErr *core.AgentCallError
		if !errors.As(err, &callErr) {
			err = core.NewAgentCallError(a.Name(), "", err)
		}
		s.publish(core.EventProviderError, m, event(map[string]any{"error": err.Error()}))
		return nil, err
	}

	s.publish(core.EventProviderResponse, m, event(map[string]any{
		"model":   resp.Model,
		"tokens":  resp.TokensUsed.TotalTokens,
		"latency": resp.Latency.String(),
	}))
	return resp, nil
}

func validate(agenda core.MeetingAgenda) error {
	if agenda.Leader == "" {
		return fmt.Errorf("%w: meeting has no leader", core.ErrUnknownRole)
	}
	if _, ok := LookupRole(agenda.Leader); !ok {
		return fmt.Errorf("%w: %q", core.ErrUnknownRole, agenda.Leader)
	}
	for _, r := range agenda.Participants {
		if _, ok := LookupRole(r); !ok {
			return fmt.Errorf("%w: %q", core.ErrUnknownRole, r)
		}
	}
	return nil
}

func roleStrings(roles []core.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
