// Package agentcouncil provides the session façade over the strategy engine,
// the meeting scheduler and the project pipeline. Most applications interact
// with this package by:
//  1. Registering provider-backed agents in an agent.Registry
//  2. Creating an Orchestrator via New() (optionally overriding the default
//     in‑memory stores, event bus and logger)
//  3. Starting a session and executing requests, meetings or whole projects
//
// The façade owns at most one live session. Stopping a session is advisory:
// calls already in flight complete, and their results are returned to the
// caller but not recorded.
package agentcouncil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/agentcouncil/artifact"
	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/decision"
	"github.com/hupe1980/agentcouncil/eventbus"
	"github.com/hupe1980/agentcouncil/logging"
	"github.com/hupe1980/agentcouncil/meeting"
	"github.com/hupe1980/agentcouncil/pipeline"
	"github.com/hupe1980/agentcouncil/session"
	"github.com/hupe1980/agentcouncil/strategy"
)

// Options configures the Orchestrator.
type Options struct {
	// Strategy engine configuration (rounds, fan-out concurrency).
	Strategy strategy.Config
	// DefaultStrategy is used when neither the request nor the session names one.
	DefaultStrategy core.StrategyKind
	// Meeting scheduler configuration (turn ceiling).
	Meeting meeting.Config

	// Initial role→agent assignments.
	Assignments map[core.Role]string

	// Bus receives every progress event (defaults to a new eventbus.Bus).
	Bus *eventbus.Bus

	// Stores (defaults to in-memory implementations if not provided)
	ResultStore   core.ResultStore
	ArtifactStore core.ArtifactStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Orchestrator is the façade aggregating the engine, scheduler and stores.
type Orchestrator struct {
	opts      Options
	registry  core.Registry
	engine    *strategy.Engine
	scheduler *meeting.Scheduler
	decisions *decision.Log

	mu      sync.RWMutex
	session *core.Session

	assignMu    sync.RWMutex
	assignments map[core.Role]string
}

// New creates an Orchestrator over registry. Any unset service is initialized
// with an in-memory implementation.
func New(registry core.Registry, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Strategy:        strategy.DefaultConfig(),
		DefaultStrategy: core.StrategyCollaborative,
		Meeting:         meeting.DefaultConfig(),
		ResultStore:     session.NewInMemoryStore(),
		ArtifactStore:   artifact.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Bus == nil {
		opts.Bus = eventbus.New(func(o *eventbus.Options) { o.Logger = opts.Logger })
	}

	o := &Orchestrator{
		opts:        opts,
		registry:    registry,
		decisions:   decision.NewLog(),
		assignments: map[core.Role]string{},
	}

	o.engine = strategy.New(func(eo *strategy.Options) {
		eo.Config = opts.Strategy
		eo.Default = opts.DefaultStrategy
		eo.Publisher = opts.Bus
		eo.Logger = opts.Logger
	})
	o.scheduler = meeting.NewScheduler(o, func(mo *meeting.Options) {
		mo.Config = opts.Meeting
		mo.Publisher = opts.Bus
		mo.Logger = opts.Logger
	})

	if len(opts.Assignments) > 0 {
		if err := o.ApplyAssignments(opts.Assignments); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Bus returns the event bus the orchestrator publishes to.
func (o *Orchestrator) Bus() *eventbus.Bus { return o.opts.Bus }

// Subscribe registers for every event. Call the returned function to
// unsubscribe.
func (o *Orchestrator) Subscribe() (<-chan core.Event, func()) {
	return o.opts.Bus.Subscribe()
}

// Close shuts down the event bus; subscriber channels are closed.
func (o *Orchestrator) Close() { o.opts.Bus.Close() }

// StartSession creates a new idle session, replacing any previous one. A
// run still executing under the replaced session is not recorded.
func (o *Orchestrator) StartSession(name string, kind core.StrategyKind) (*core.Session, error) {
	if kind != "" {
		if _, err := core.ParseStrategy(string(kind)); err != nil {
			return nil, err
		}
	}

	s := core.NewSession(name, kind)
	s.SetAssignments(o.Assignments())

	o.mu.Lock()
	prev := o.session
	o.session = s
	o.mu.Unlock()

	if prev != nil {
		o.opts.Logger.Info("session.replaced", "session_id", prev.ID, "by", s.ID)
	}

	o.saveSession(s)
	o.publish(core.EventSessionStarted, map[string]any{"session_id": s.ID, "name": name, "strategy": string(kind)})
	o.opts.Logger.Info("session.start", "session_id", s.ID, "name", name, "strategy", kind)

	return s.Clone(), nil
}

// StopSession marks the current session stopped and forgets it. It never
// fails and does nothing without a session. In-flight agent calls are not
// aborted.
func (o *Orchestrator) StopSession() {
	o.mu.Lock()
	s := o.session
	o.session = nil
	o.mu.Unlock()

	if s == nil {
		return
	}

	if s.GetStatus() == core.SessionRunning {
		s.SetStatus(core.SessionPaused)
	} else if s.GetStatus() != core.SessionError {
		s.SetStatus(core.SessionCompleted)
	}

	o.saveSession(s)
	o.publish(core.EventSessionStopped, map[string]any{"session_id": s.ID, "status": string(s.GetStatus())})
	o.opts.Logger.Info("session.stop", "session_id", s.ID, "status", s.GetStatus())
}

// Session returns a snapshot of the current session, or nil.
func (o *Orchestrator) Session() *core.Session {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.session == nil {
		return nil
	}
	return o.session.Clone()
}

// Execute runs req under the current session with the strategy engine.
func (o *Orchestrator) Execute(ctx context.Context, req core.OrchestrationRequest) (*core.OrchestrationResult, error) {
	s, err := o.begin()
	if err != nil {
		return nil, err
	}

	if req.Strategy == "" {
		req.Strategy = s.Strategy
	}

	agents := o.resolveAgents(req.PreferredAgents)
	result, err := o.engine.Execute(ctx, req, agents)
	if !o.finish(s, "execute", err) {
		return result, err
	}

	s.AddConversation(result.Conversation)
	if serr := o.opts.ResultStore.SaveOrchestration(s.ID, result); serr != nil {
		o.opts.Logger.Error("store.save_orchestration.failed", "session_id", s.ID, "run_id", result.ID, "error", serr)
	}
	o.saveSession(s)

	return result, nil
}

// RunMeeting runs one meeting under the current session. Agents are
// resolved per turn from the live role assignments.
func (o *Orchestrator) RunMeeting(ctx context.Context, agenda core.MeetingAgenda) (*core.MeetingResult, error) {
	s, err := o.begin()
	if err != nil {
		return nil, err
	}

	result, err := o.scheduler.Run(ctx, agenda)
	if !o.finish(s, "meeting", err) {
		return result, err
	}

	o.recordMeeting(s, result)
	o.saveSession(s)

	return result, nil
}

// RunProject drives a project through every pipeline stage under the
// current session.
func (o *Orchestrator) RunProject(ctx context.Context, name, description string) (*core.PipelineResult, error) {
	s, err := o.begin()
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(o.scheduler, func(po *pipeline.Options) {
		po.MaxTurns = o.opts.Meeting.MaxTurns
		po.Publisher = o.opts.Bus
		po.Logger = o.opts.Logger
		po.OnStage = func(sr core.StageResult) {
			if o.current(s) {
				o.recordMeeting(s, sr.Meeting)
			}
		}
	})

	result, err := runner.Run(ctx, name, description)
	if !o.finish(s, "project", err) {
		return result, err
	}

	s.SetPipeline(result)
	o.saveSession(s)

	return result, nil
}

// AssignRole routes role to the named agent for subsequent calls.
func (o *Orchestrator) AssignRole(role core.Role, agentName string) error {
	return o.ApplyAssignments(map[core.Role]string{role: agentName})
}

// ApplyAssignments validates every entry and then merges them into the
// assignment table in one step. On error nothing changes.
func (o *Orchestrator) ApplyAssignments(assignments map[core.Role]string) error {
	for role, name := range assignments {
		if _, ok := meeting.LookupRole(role); !ok {
			return fmt.Errorf("assign %q: %w", role, core.ErrUnknownRole)
		}
		if _, err := o.registry.Get(name); err != nil {
			return fmt.Errorf("assign %s to %q: %w", role, name, err)
		}
	}

	o.assignMu.Lock()
	for role, name := range assignments {
		o.assignments[role] = name
	}
	snapshot := copyAssignments(o.assignments)
	o.assignMu.Unlock()

	o.mu.RLock()
	s := o.session
	o.mu.RUnlock()
	if s != nil {
		s.SetAssignments(snapshot)
	}

	o.opts.Logger.Info("roles.assigned", "count", len(assignments))
	return nil
}

// Assignments returns a copy of the role→agent table.
func (o *Orchestrator) Assignments() map[core.Role]string {
	o.assignMu.RLock()
	defer o.assignMu.RUnlock()
	return copyAssignments(o.assignments)
}

// AgentForRole resolves the agent playing role. An explicit assignment wins;
// otherwise the role's catalogue position picks round-robin among the
// agents whose capabilities accept the role (or all agents when none do).
func (o *Orchestrator) AgentForRole(role core.Role) (core.Agent, error) {
	idx := meeting.RoleIndex(role)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownRole, role)
	}

	o.assignMu.RLock()
	name, ok := o.assignments[role]
	o.assignMu.RUnlock()

	if ok {
		return o.registry.Get(name)
	}

	agents := o.registry.List()
	if len(agents) == 0 {
		return nil, core.ErrNoAgentsAvailable
	}

	var candidates []core.Agent
	for _, a := range agents {
		if a.Capabilities().SupportsRole(role) {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		candidates = agents
	}

	return candidates[idx%len(candidates)], nil
}

// Decisions returns every decision recorded in this process, oldest first.
func (o *Orchestrator) Decisions() []core.Decision { return o.decisions.All() }

// MeetingDecisions returns the decisions of one meeting from the result
// store.
func (o *Orchestrator) MeetingDecisions(meetingID string) ([]core.Decision, error) {
	return o.opts.ResultStore.Decisions(meetingID)
}

// Artifacts lists the ids of the code artifacts stored for a meeting.
func (o *Orchestrator) Artifacts(meetingID string) ([]string, error) {
	return o.opts.ArtifactStore.List(meetingID)
}

// Artifact returns the content of one stored meeting artifact.
func (o *Orchestrator) Artifact(meetingID, artifactID string) ([]byte, error) {
	return o.opts.ArtifactStore.Get(meetingID, artifactID)
}

// SearchDecisions returns up to limit recorded decisions matching query.
func (o *Orchestrator) SearchDecisions(query string, limit int) []core.Decision {
	return o.decisions.Search(query, limit)
}

// HealthCheck checks every registered agent concurrently.
func (o *Orchestrator) HealthCheck(ctx context.Context) map[string]bool {
	agents := o.registry.List()
	out := make(map[string]bool, len(agents))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range agents {
		g.Go(func() error {
			ok := a.HealthCheck(gctx)
			mu.Lock()
			out[a.Name()] = ok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// begin claims the current session for one run.
func (o *Orchestrator) begin() (*core.Session, error) {
	o.mu.RLock()
	s := o.session
	o.mu.RUnlock()

	if s == nil {
		return nil, core.ErrNoSession
	}
	if !s.TryStart() {
		return nil, core.ErrSessionBusy
	}
	return s, nil
}

// finish releases s after a run and reports whether the run's result should
// be recorded. Results of runs whose session was stopped or replaced are
// discarded.
func (o *Orchestrator) finish(s *core.Session, op string, err error) bool {
	if !o.current(s) {
		o.opts.Logger.Warn("session.late_result_discarded", "session_id", s.ID, "op", op, "error", err)
		return false
	}

	if err != nil {
		s.SetStatus(core.SessionError)
		o.saveSession(s)
		o.publish(core.EventSessionError, map[string]any{
			"session_id": s.ID,
			"op":         op,
			"error":      core.Describe(err),
		})
		o.opts.Logger.Error("session.run.failed", "session_id", s.ID, "op", op, "error", err)
		return false
	}

	s.SetStatus(core.SessionIdle)
	return true
}

func (o *Orchestrator) current(s *core.Session) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.session == s
}

func (o *Orchestrator) recordMeeting(s *core.Session, m *core.MeetingResult) {
	o.decisions.Add(m.Decisions...)

	if err := o.opts.ResultStore.SaveMeeting(s.ID, m); err != nil {
		o.opts.Logger.Error("store.save_meeting.failed", "session_id", s.ID, "meeting_id", m.ID, "error", err)
	}
	if _, err := artifact.SaveAll(o.opts.ArtifactStore, m.ID, m.Artifacts); err != nil {
		o.opts.Logger.Error("store.save_artifacts.failed", "meeting_id", m.ID, "error", err)
	}
}

func (o *Orchestrator) saveSession(s *core.Session) {
	if err := o.opts.ResultStore.SaveSession(s); err != nil {
		o.opts.Logger.Error("store.save_session.failed", "session_id", s.ID, "error", err)
	}
}

// resolveAgents maps preferred names to registered agents in the given
// order; unknown names are skipped. Without any match every registered
// agent is used.
func (o *Orchestrator) resolveAgents(preferred []string) []core.Agent {
	var agents []core.Agent
	seen := make(map[string]bool, len(preferred))
	for _, name := range preferred {
		if seen[name] {
			continue
		}
		a, err := o.registry.Get(name)
		if err != nil {
			if !errors.Is(err, core.ErrAgentNotFound) {
				o.opts.Logger.Warn("registry.lookup.failed", "agent", name, "error", err)
			}
			continue
		}
		seen[name] = true
		agents = append(agents, a)
	}
	if len(agents) > 0 {
		return agents
	}
	return o.registry.List()
}

func (o *Orchestrator) publish(t core.EventType, data map[string]any) {
	o.opts.Bus.Publish(core.NewEvent(t, data))
}

func copyAssignments(in map[core.Role]string) map[core.Role]string {
	out := make(map[core.Role]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
