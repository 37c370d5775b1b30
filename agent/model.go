package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
	"github.com/hupe1980/agentcouncil/model"
)

// errEmptyResponse is returned when a model closes its stream without a reply.
var errEmptyResponse = errors.New("model returned no response")

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	// Roles the agent is suited for; empty means any role.
	Roles         []core.Role
	ContextWindow int
	// Timeout bounds a single SendMessage call. Zero disables the limit.
	Timeout time.Duration
	// Stream requests streamed generation from the model.
	Stream bool
	// HealthPrompt is the message sent by HealthCheck.
	HealthPrompt string
	Logger       logging.Logger
}

// ModelAgent integrates a language model with the multi-agent orchestration.
//
// It is safe for concurrent SendMessage calls provided the wrapped model is.
type ModelAgent struct {
	name   string
	llm    model.Model
	roles  []core.Role
	window int
	opts   ModelAgentOptions
	logger logging.Logger
}

// NewModelAgent creates a new model-based agent with sensible defaults
// (60 second timeout, 128k context window, no role restriction).
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		ContextWindow: 128000,
		Timeout:       60 * time.Second,
		HealthPrompt:  "Reply with OK.",
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	roles := make([]core.Role, len(opts.Roles))
	copy(roles, opts.Roles)

	return &ModelAgent{
		name:   name,
		llm:    llm,
		roles:  roles,
		window: opts.ContextWindow,
		opts:   opts,
		logger: opts.Logger,
	}
}

// Name returns the agent's registry name.
func (a *ModelAgent) Name() string { return a.name }

// Capabilities reports the configured roles and context window.
func (a *ModelAgent) Capabilities() core.Capabilities {
	roles := make([]core.Role, len(a.roles))
	copy(roles, a.roles)
	return core.Capabilities{
		Roles:             roles,
		ContextWindow:     a.window,
		SupportsStreaming: a.llm.Info().SupportsStreaming,
	}
}

// SendMessage asks the model for the next reply given the shared history.
// Failures are returned as *core.AgentCallError.
func (a *ModelAgent) SendMessage(ctx context.Context, history []core.Message, systemPrompt string) (*core.AgentResponse, error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	info := a.llm.Info()
	start := time.Now()

	req := model.Request{
		SystemPrompt: systemPrompt,
		Messages:     ConvertHistory(a.name, history),
		Stream:       a.opts.Stream && info.SupportsStreaming,
	}

	final, err := collect(ctx, a.llm, req)
	latency := time.Since(start)
	if err != nil {
		callErr := core.NewAgentCallError(a.name, classify(err), err)
		logging.LogAgentCall(a.logger, a.name, info.Name, 0, latency, callErr)
		return nil, callErr
	}

	resp := &core.AgentResponse{
		Content: final.Content,
		Agent:   a.name,
		Model:   final.Model,
		Latency: latency,
		Raw:     final.Raw,
	}
	if resp.Model == "" {
		resp.Model = info.Name
	}
	if final.Usage != nil {
		resp.TokensUsed = *final.Usage
	}

	logging.LogAgentCall(a.logger, a.name, resp.Model, resp.TokensUsed.TotalTokens, latency, nil)
	return resp, nil
}

// HealthCheck sends a tiny request and reports whether the provider answered.
func (a *ModelAgent) HealthCheck(ctx context.Context) bool {
	_, err := a.SendMessage(ctx, []core.Message{core.NewUserMessage(a.opts.HealthPrompt)}, "")
	if err != nil {
		a.logger.Warn("agent.health.failed", "agent", a.name, "error", err)
		return false
	}
	return true
}

// collect drains the model channels and returns the final response. When a
// model only emits partial chunks their content is concatenated.
func collect(ctx context.Context, llm model.Model, req model.Request) (model.Response, error) {
	respCh, errCh := llm.Generate(ctx, req)

	var (
		final    model.Response
		hasFinal bool
		partial  strings.Builder
	)
	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return model.Response{}, ctx.Err()
		case r, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if r.Partial {
				partial.WriteString(r.Content)
				continue
			}
			final, hasFinal = r, true
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return model.Response{}, err
			}
		}
	}

	if !hasFinal {
		if partial.Len() == 0 {
			return model.Response{}, errEmptyResponse
		}
		final = model.Response{Content: partial.String(), FinishReason: "stop"}
	}
	return final, nil
}

// classify maps provider status codes onto failure kinds. Deadlines are
// handled by core.NewAgentCallError.
func classify(err error) core.AgentErrorKind {
	switch model.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.AgentErrorAuth
	case http.StatusTooManyRequests:
		return core.AgentErrorRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return core.AgentErrorTimeout
	default:
		return core.AgentErrorGeneric
	}
}
