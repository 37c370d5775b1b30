package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcouncil/core"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		strategyName string
		contextText  string
		files        []string
		agents       []string
	)

	cmd := &cobra.Command{
		Use:   "run [prompt]",
		Short: "Execute a prompt with a multi-agent strategy",
		Long: `Execute a prompt across the configured providers with one of the
strategies: collaborative, sequential, parallel or competitive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := core.OrchestrationRequest{
				Prompt:          strings.Join(args, " "),
				Context:         contextText,
				Files:           files,
				PreferredAgents: agents,
			}
			if strategyName != "" {
				kind, err := core.ParseStrategy(strategyName)
				if err != nil {
					return err
				}
				req.Strategy = kind
			}

			orch, cleanup, err := a.orchestrator(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			logger, err := a.startSession(orch, "cli-run", req.Strategy)
			if err != nil {
				return err
			}

			done := logger.StartTimer("run")
			result, err := orch.Execute(cmd.Context(), req)
			done()
			if err != nil {
				logger.Error("run failed", "error", err)
				return describe(err)
			}

			return a.printOrchestration(cmd.OutOrStdout(), result)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&strategyName, "strategy", "s", "", "strategy (collaborative, sequential, parallel, competitive)")
	flags.StringVar(&contextText, "context", "", "additional context for the agents")
	flags.StringSliceVar(&files, "file", nil, "relevant file paths (repeatable)")
	flags.StringSliceVar(&agents, "agent", nil, "preferred agents in order (repeatable)")

	return cmd
}
