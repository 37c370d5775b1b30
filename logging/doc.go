// Package logging provides a minimal logging interface and adapters for agentcouncil.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the strategy engine, the meeting scheduler and the facade use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - SlogLogger with contextual helpers (component, session) and agent-call logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	orch, err := agentcouncil.New(registry, func(o *agentcouncil.Options) { o.Logger = logger })
//
// Arguments after the message are slog-style alternating key/value pairs.
package logging
