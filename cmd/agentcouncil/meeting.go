package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/meeting"
)

func newMeetingCmd(a *app) *cobra.Command {
	var (
		meetingType  string
		title        string
		leader       string
		participants []string
		maxTurns     int
		contextText  string
	)

	cmd := &cobra.Command{
		Use:   "meeting [description]",
		Short: "Run a role-based meeting",
		Long: `Run a multi-turn meeting among company roles. The leader opens, every
participant speaks in order, the leader replies after each round and closes
with a summary. Decisions are extracted from "DECISION:" lines.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := core.ParseMeetingType(meetingType)
			if err != nil {
				return err
			}

			agenda := core.MeetingAgenda{
				Title:       title,
				Description: strings.Join(args, " "),
				Type:        t,
				MaxTurns:    maxTurns,
				Context:     contextText,
			}
			for _, p := range participants {
				r, err := meeting.ParseRole(p)
				if err != nil {
					return err
				}
				agenda.Participants = append(agenda.Participants, r)
			}
			if leader != "" {
				if agenda.Leader, err = meeting.ParseRole(leader); err != nil {
					return err
				}
			} else if len(agenda.Participants) > 0 {
				agenda.Leader = agenda.Participants[0]
			}
			if agenda.Title == "" {
				agenda.Title = fmt.Sprintf("%s meeting", strings.ReplaceAll(string(t), "_", " "))
			}

			orch, cleanup, err := a.orchestrator(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			logger, err := a.startSession(orch, "cli-meeting", "")
			if err != nil {
				return err
			}

			done := logger.StartTimer("meeting")
			result, err := orch.RunMeeting(cmd.Context(), agenda)
			done()
			if err != nil {
				logger.Error("meeting failed", "error", err)
				return describe(err)
			}

			return a.printMeeting(cmd.OutOrStdout(), result)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&meetingType, "type", "t", string(core.MeetingKickoff), "meeting type")
	flags.StringVar(&title, "title", "", "meeting title")
	flags.StringVar(&leader, "leader", "", "leading role (default: first participant)")
	flags.StringSliceVarP(&participants, "participants", "p", []string{"architect", "developer", "qa_engineer"}, "participant roles")
	flags.IntVar(&maxTurns, "max-turns", 0, "turn ceiling (default from config)")
	flags.StringVar(&contextText, "context", "", "background for the meeting")

	return cmd
}
