package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcouncil/meeting"
)

func newRolesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the role catalogue and the agent playing each role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, cleanup, err := a.orchestrator(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			assigned := orch.Assignments()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROLE\tTITLE\tAGENT")
			for _, r := range meeting.Roles() {
				name := "-"
				if ag, err := orch.AgentForRole(r.ID); err == nil {
					name = ag.Name()
					if _, ok := assigned[r.ID]; !ok {
						name += " (default)"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Title, name)
			}
			return w.Flush()
		},
	}
}
