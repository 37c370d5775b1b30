package strategy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
)

// DefaultMaxRounds bounds the collaborative review loop.
const DefaultMaxRounds = 3

// Config tunes strategy execution.
type Config struct {
	// MaxRounds bounds the collaborative developer/reviewer loop.
	MaxRounds int
	// MaxConcurrency bounds concurrent fan-out calls. Zero means unbounded.
	MaxConcurrency int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{MaxRounds: DefaultMaxRounds}
}

// Strategy is one execution algorithm. Execute drives agent calls through
// run and returns the final output.
type Strategy interface {
	Kind() core.StrategyKind
	Execute(ctx context.Context, run *Run) (string, error)
}

var strategies = map[core.StrategyKind]Strategy{
	core.StrategyCollaborative: collaborative{},
	core.StrategySequential:    sequential{},
	core.StrategyParallel:      parallel{},
	core.StrategyCompetitive:   competitive{},
}

// Lookup returns the strategy implementing kind.
func Lookup(kind core.StrategyKind) (Strategy, error) {
	s, ok := strategies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownStrategy, kind)
	}
	return s, nil
}

// Options configures an Engine.
type Options struct {
	Config
	// Default is used when a request names no strategy.
	Default   core.StrategyKind
	Publisher core.Publisher
	Logger    logging.Logger
}

// Engine executes orchestration requests. It holds no per-run state and is
// safe for concurrent use.
type Engine struct {
	cfg       Config
	def       core.StrategyKind
	publisher core.Publisher
	logger    logging.Logger
}

// New creates an Engine with the given options.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:    DefaultConfig(),
		Default:   core.StrategyCollaborative,
		Publisher: core.NopPublisher{},
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.MaxConcurrency < 0 {
		opts.MaxConcurrency = 0
	}

	return &Engine{
		cfg:       opts.Config,
		def:       opts.Default,
		publisher: opts.Publisher,
		logger:    opts.Logger,
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Execute runs req over agents with the requested strategy.
//
// agents must be non-empty; their order determines role selection. Any
// failure in an ordered step aborts the run and no result is returned.
func (e *Engine) Execute(ctx context.Context, req core.OrchestrationRequest, agents []core.Agent) (*core.OrchestrationResult, error) {
	if len(agents) == 0 {
		return nil, core.ErrNoAgentsAvailable
	}

	kind := req.Strategy
	if kind == "" {
		kind = e.def
	}

	s, err := Lookup(kind)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:        core.NewID(),
		Request:   req,
		Agents:    append([]core.Agent(nil), agents...),
		Config:    e.cfg,
		kind:      kind,
		publisher: e.publisher,
		logger:    e.logger,
		conv:      core.NewConversation(core.NewUserMessage(req.UserPrompt())),
	}

	e.logger.Info("strategy.execute.start", "run_id", run.ID, "strategy", kind, "agents", len(agents))
	start := time.Now()

	final, err := s.Execute(ctx, run)
	if err != nil {
		e.logger.Error("strategy.execute.failed", "run_id", run.ID, "strategy", kind, "error", err)
		return nil, fmt.Errorf("%s run %s: %w", kind, run.ID, err)
	}

	responses := run.Responses()
	result := &core.OrchestrationResult{
		ID:           run.ID,
		Strategy:     kind,
		Responses:    responses,
		FinalOutput:  final,
		Conversation: run.conv.Clone(),
		Duration:     time.Since(start),
		TokenUsage:   core.SumUsage(responses),
	}

	e.logger.Info("strategy.execute.done",
		"run_id", run.ID,
		"strategy", kind,
		"responses", len(responses),
		"tokens", result.TokenUsage.TotalTokens,
		"duration", result.Duration,
	)
	return result, nil
}

// Run is the mutable state of one strategy execution. It is owned by the
// goroutine executing the strategy; only response recording is shared with
// fan-out workers.
type Run struct {
	ID      string
	Request core.OrchestrationRequest
	Agents  []core.Agent
	Config  Config

	kind      core.StrategyKind
	publisher core.Publisher
	logger    logging.Logger
	conv      *core.Conversation

	mu        sync.Mutex
	responses []core.AgentResponse
}

// Conversation returns the shared conversation of the run.
func (r *Run) Conversation() *core.Conversation { return r.conv }

// Responses returns the consumed responses in consumption order.
func (r *Run) Responses() []core.AgentResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.AgentResponse(nil), r.responses...)
}

func (r *Run) record(resp *core.AgentResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, *resp)
}

// Phase wraps fn with phase started/completed events.
func (r *Run) Phase(name string, fn func() error) error {
	r.emit(core.EventStrategyPhaseStarted, map[string]any{"phase": name})
	if err := fn(); err != nil {
		return err
	}
	r.emit(core.EventStrategyPhaseCompleted, map[string]any{"phase": name})
	return nil
}

// Call sends history to a and returns the response without recording it.
// Failures are always reported as *core.AgentCallError.
func (r *Run) Call(ctx context.Context, a core.Agent, phase string, history []core.Message, systemPrompt string) (*core.AgentResponse, error) {
	r.emit(core.EventProviderRequest, map[string]any{"agent": a.Name(), "phase": phase})

	resp, err := a.SendMessage(ctx, history, systemPrompt)
	if err != nil {
		var callErr *core.AgentCallError
		if !errors.As(err, &callErr) {
			err = core.NewAgentCallError(a.Name(), "", err)
		}
		r.emit(core.EventProviderError, map[string]any{"agent": a.Name(), "phase": phase, "error": err.Error()})
		r.logger.Warn("strategy.call.failed", "run_id", r.ID, "agent", a.Name(), "phase", phase, "error", err)
		return nil, err
	}

	r.emit(core.EventProviderResponse, map[string]any{
		"agent":   a.Name(),
		"phase":   phase,
		"model":   resp.Model,
		"tokens":  resp.TokensUsed.TotalTokens,
		"latency": resp.Latency.String(),
	})
	return resp, nil
}

// Step performs an ordered call over the shared conversation, records the
// response and appends it tagged with tag.
func (r *Run) Step(ctx context.Context, a core.Agent, tag, systemPrompt string) (*core.AgentResponse, error) {
	resp, err := r.Call(ctx, a, tag, r.conv.Snapshot(), systemPrompt)
	if err != nil {
		return nil, err
	}
	r.record(resp)
	r.conv.Append(core.NewAssistantMessage(a.Name(), tag, resp.Content))
	return resp, nil
}

func (r *Run) emit(t core.EventType, data map[string]any) {
	data["run_id"] = r.ID
	data["strategy"] = string(r.kind)
	r.publisher.Publish(core.NewEvent(t, data))
}
