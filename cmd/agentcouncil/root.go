package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	agentcouncil "github.com/hupe1980/agentcouncil"
	"github.com/hupe1980/agentcouncil/config"
	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
	"github.com/hupe1980/agentcouncil/store/sqlite"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	jsonOutput bool
	events     bool

	cfg    *config.Config
	logger *logging.SlogLogger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "agentcouncil",
		Short: "Agent Council - coordinate LLM providers as a team",
		Long: `Agent Council coordinates several LLM providers into collaborative,
sequential, parallel and competitive strategies, role-based meetings and a
staged project pipeline (requirements, architecture, implementation, review,
release).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: a single mock provider)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (json, text)")
	flags.BoolVar(&a.jsonOutput, "json", false, "print results as JSON")
	flags.BoolVar(&a.events, "events", false, "stream progress events to stderr")

	cmd.AddCommand(
		newRunCmd(a),
		newMeetingCmd(a),
		newProjectCmd(a),
		newRolesCmd(a),
		newDecisionsCmd(a),
	)

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    cmd.ErrOrStderr(),
		Component: "cli",
	})
	if a.configPath != "" {
		a.logger = a.logger.WithContext("config", a.configPath)
	}

	return nil
}

// openStore opens the sqlite store named by store.path.
func (a *app) openStore() (*sqlite.Store, error) {
	return sqlite.Open(a.cfg.Store.Path, func(o *sqlite.Options) {
		o.Logger = a.logger.WithComponent("store")
	})
}

// startSession opens a session on orch and returns the CLI logger scoped to
// it.
func (a *app) startSession(orch *agentcouncil.Orchestrator, name string, kind core.StrategyKind) (*logging.SlogLogger, error) {
	s, err := orch.StartSession(name, kind)
	if err != nil {
		return nil, err
	}
	return a.logger.WithSession(s.ID), nil
}

// orchestrator builds the façade from the loaded configuration. The returned
// function releases the stores and the event bus.
func (a *app) orchestrator(cmd *cobra.Command) (*agentcouncil.Orchestrator, func(), error) {
	registry, err := buildRegistry(a.cfg, a.logger.WithComponent("agent"))
	if err != nil {
		return nil, nil, err
	}

	var (
		results   core.ResultStore
		artifacts core.ArtifactStore
		closers   []func()
	)
	if a.cfg.Store.Path != "" {
		store, err := a.openStore()
		if err != nil {
			return nil, nil, err
		}
		results, artifacts = store, store
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("store.close.failed", "error", err)
			}
		})
	}

	orch, err := agentcouncil.New(registry, func(o *agentcouncil.Options) {
		o.Strategy.MaxRounds = a.cfg.Strategy.MaxRounds
		o.Strategy.MaxConcurrency = a.cfg.Strategy.MaxConcurrency
		o.DefaultStrategy = a.cfg.DefaultStrategy()
		o.Meeting.MaxTurns = a.cfg.Meeting.MaxTurns
		o.Assignments = a.cfg.RoleAssignments()
		o.Logger = a.logger.WithComponent("orchestrator")
		if results != nil {
			o.ResultStore = results
			o.ArtifactStore = artifacts
		}
	})
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, nil, err
	}

	if a.events {
		ch, _ := orch.Subscribe()
		go printEvents(cmd.ErrOrStderr(), ch)
	}

	cleanup := func() {
		orch.StopSession()
		orch.Close()
		for _, c := range closers {
			c()
		}
	}
	return orch, cleanup, nil
}

func printEvents(w io.Writer, ch <-chan core.Event) {
	for e := range ch {
		var parts []string
		for _, key := range []string{"agent", "phase", "role", "turn", "stage", "title"} {
			if v, ok := e.Data[key]; ok {
				parts = append(parts, fmt.Sprintf("%s=%v", key, v))
			}
		}
		fmt.Fprintf(w, "%s %-26s %s\n", e.Timestamp.Format("15:04:05"), e.Type, strings.Join(parts, " "))
	}
}
