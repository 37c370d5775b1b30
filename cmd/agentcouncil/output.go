package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hupe1980/agentcouncil/core"
)

func (a *app) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printOrchestration(w io.Writer, r *core.OrchestrationResult) error {
	if a.jsonOutput {
		return a.printJSON(w, r)
	}

	fmt.Fprintln(w, r.FinalOutput)
	fmt.Fprintf(w, "\n--- %s · %d responses · %d tokens · %s\n",
		r.Strategy, len(r.Responses), r.TokenUsage.TotalTokens, r.Duration.Round(time.Millisecond))
	return nil
}

func (a *app) printMeeting(w io.Writer, m *core.MeetingResult) error {
	if a.jsonOutput {
		return a.printJSON(w, m)
	}

	fmt.Fprintf(w, "# %s (%s)\n\n", m.Agenda.Title, m.Agenda.Type)
	for _, t := range m.Turns {
		fmt.Fprintf(w, "## Turn %d · %s (%s)\n%s\n\n", t.Number, t.Role, t.Agent, t.Message)
	}
	fmt.Fprintf(w, "## Summary\n%s\n", m.Summary)
	writeDecisions(w, m.Decisions)

	fmt.Fprintf(w, "\n--- meeting %s · %d turns · %d artifacts · %d tokens\n",
		m.ID, len(m.Turns), len(m.Artifacts), m.TokenUsage.TotalTokens)
	return nil
}

func (a *app) printPipeline(w io.Writer, p *core.PipelineResult) error {
	if a.jsonOutput {
		return a.printJSON(w, p)
	}

	fmt.Fprintf(w, "# %s\n", p.Project)
	for _, s := range p.Stages {
		fmt.Fprintf(w, "\n## %s (meeting %s)\n%s\n", s.Stage, s.Meeting.ID, s.Meeting.Summary)
	}
	writeDecisions(w, p.Decisions)

	fmt.Fprintf(w, "\n--- %d stages · %d decisions · %d tokens\n",
		len(p.Stages), len(p.Decisions), p.TokenUsage.TotalTokens)
	return nil
}

func (a *app) printDecisions(w io.Writer, list []core.Decision) error {
	if a.jsonOutput {
		return a.printJSON(w, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "no decisions")
		return nil
	}
	writeDecisions(w, list)
	return nil
}

func writeDecisions(w io.Writer, list []core.Decision) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintln(w, "\n## Decisions")
	for _, d := range list {
		fmt.Fprintf(w, "- [%s] %s (by %s)\n", d.Stage, d.Title, d.MadeBy)
		if d.Rationale != "" {
			fmt.Fprintf(w, "    rationale: %s\n", d.Rationale)
		}
		if len(d.Alternatives) > 0 {
			fmt.Fprintf(w, "    alternatives: %s\n", strings.Join(d.Alternatives, ", "))
		}
	}
}

// describe prefixes err with its user-facing description while keeping it
// matchable with errors.Is/As.
func describe(err error) error {
	msg := core.Describe(err)
	if msg == err.Error() {
		return err
	}
	return fmt.Errorf("%s (%w)", msg, err)
}
