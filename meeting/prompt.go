package meeting

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/internal/util"
)

var systemPrompt = util.MustParse("meeting", `{{.Persona}}

You are the {{.Title}} (@{{.Role}}) in the {{.Type}} meeting "{{.Meeting}}".
Participants:
{{range .Roster}}- {{.Title}} (@{{.ID}}){{if .Leader}}, meeting leader{{end}}
{{end}}
This is turn {{.Turn}} of at most {{.MaxTurns}}.{{if .Leader}} You lead this meeting: steer the discussion toward concrete outcomes.{{end}}

Guidelines:
- Address another participant with @role, for example @{{.Example}}.
- Record every agreed decision on its own line as "DECISION: <title>", followed by "Rationale: <why>" and, if relevant, "Alternatives: <a>, <b>".
- Put code in fenced code blocks.
- Stay in your role and keep your contribution focused.`)

const summaryPrompt = `You led this meeting. Write a concise summary of the discussion:
the key points, every decision taken (repeat them as "DECISION: <title>" lines) and the open action items with owners.`

type rosterEntry struct {
	ID     core.Role
	Title  string
	Leader bool
}

func title(r core.Role) string {
	if info, ok := LookupRole(r); ok {
		return info.Title
	}
	return string(r)
}

func persona(r core.Role) string {
	if info, ok := LookupRole(r); ok {
		return info.Persona
	}
	return fmt.Sprintf("You are the %s.", r)
}

// buildSystemPrompt renders the role-specific system prompt for one turn.
func buildSystemPrompt(agenda core.MeetingAgenda, roster []core.Role, role core.Role, turn, maxTurns int) (string, error) {
	entries := make([]rosterEntry, len(roster))
	example := string(agenda.Leader)
	for i, r := range roster {
		entries[i] = rosterEntry{ID: r, Title: title(r), Leader: r == agenda.Leader}
		if r != role && example == string(role) {
			example = string(r)
		}
	}

	return util.Execute(systemPrompt, map[string]any{
		"Persona":  persona(role),
		"Title":    title(role),
		"Role":     role,
		"Type":     strings.ReplaceAll(string(agenda.Type), "_", " "),
		"Meeting":  agenda.Title,
		"Roster":   entries,
		"Turn":     turn,
		"MaxTurns": maxTurns,
		"Leader":   role == agenda.Leader,
		"Example":  example,
	})
}

// openingMessage is the user message that seeds the meeting conversation.
func openingMessage(agenda core.MeetingAgenda) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meeting: %s\n", agenda.Title)
	if agenda.Description != "" {
		fmt.Fprintf(&b, "\nAgenda:\n%s\n", agenda.Description)
	}
	if agenda.Context != "" {
		fmt.Fprintf(&b, "\nContext:\n%s\n", agenda.Context)
	}
	return strings.TrimRight(b.String(), "\n")
}
