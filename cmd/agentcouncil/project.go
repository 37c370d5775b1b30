package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcouncil/config"
)

func newProjectCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "project [name] [description]",
		Short: "Run a project through every pipeline stage",
		Long: `Run a project through the requirements, architecture, implementation,
review and release stages. Each stage is one meeting; its summary feeds the
next stage. With --watch, role assignments are re-applied whenever the
config file changes.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && a.configPath == "" {
				return errors.New("--watch requires --config")
			}

			orch, cleanup, err := a.orchestrator(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			logger, err := a.startSession(orch, args[0], "")
			if err != nil {
				return err
			}

			if watch {
				go func() {
					err := config.Watch(cmd.Context(), a.configPath, func(c *config.Config) {
						if err := orch.ApplyAssignments(c.RoleAssignments()); err != nil {
							logger.Warn("assignments rejected", "error", err)
						}
					}, func(o *config.WatchOptions) {
						o.Logger = a.logger.WithComponent("config")
					})
					if err != nil {
						logger.Warn("config watch stopped", "error", err)
					}
				}()
			}

			done := logger.StartTimer("project")
			result, err := orch.RunProject(cmd.Context(), args[0], strings.Join(args[1:], " "))
			done()
			if err != nil {
				logger.Error("project failed", "error", err)
				return describe(err)
			}

			return a.printPipeline(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-apply role assignments when the config file changes")

	return cmd
}
