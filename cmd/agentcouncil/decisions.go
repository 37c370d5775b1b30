package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/decision"
)

func newDecisionsCmd(a *app) *cobra.Command {
	var (
		meetingID string
		stage     string
		query     string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "List decisions recorded in the result store",
		Long: `List decisions recorded in the SQLite result store (store.path in the
config file). Filter by meeting, by stage or by a free-text query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Store.Path == "" {
				return errors.New("decisions requires store.path in the config file")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var list []core.Decision
			if meetingID != "" {
				list, err = store.Decisions(meetingID)
			} else {
				list, err = store.AllDecisions()
			}
			if err != nil {
				return err
			}

			log := decision.NewLog()
			log.Add(list...)

			switch {
			case query != "":
				list = log.Search(query, limit)
			case stage != "":
				list = log.ByStage(core.Stage(stage))
			default:
				list = log.All()
			}

			return a.printDecisions(cmd.OutOrStdout(), list)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&meetingID, "meeting", "m", "", "meeting id")
	flags.StringVar(&stage, "stage", "", "pipeline stage (requirements, architecture, implementation, review, release)")
	flags.StringVarP(&query, "query", "q", "", "free-text search over title, description and rationale")
	flags.IntVar(&limit, "limit", 20, "maximum results for --query")

	return cmd
}
