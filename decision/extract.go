package decision

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hupe1980/agentcouncil/core"
)

// WindowSize is the number of characters after a DECISION marker searched
// for rationale and alternatives.
const WindowSize = 500

var (
	markerPattern       = regexp.MustCompile(`(?im)^[ \t]*DECISION:[ \t]*(.+?)[ \t]*$`)
	rationalePattern    = regexp.MustCompile(`(?im)^[ \t]*(?:rationale|reason|because|why)[ \t]*:[ \t]*(.+?)[ \t]*$`)
	alternativesPattern = regexp.MustCompile(`(?im)^[ \t]*(?:alternatives(?: considered)?|other options|instead of)[ \t]*:[ \t]*(.+?)[ \t]*$`)
	alternativesSplit   = regexp.MustCompile(`[,;]`)
)

var stages = map[core.MeetingType]core.Stage{
	core.MeetingKickoff:         core.StageRequirements,
	core.MeetingRequirements:    core.StageRequirements,
	core.MeetingArchitecture:    core.StageArchitecture,
	core.MeetingSprintPlanning:  core.StageImplementation,
	core.MeetingStandup:         core.StageImplementation,
	core.MeetingCodeReview:      core.StageReview,
	core.MeetingRetrospective:   core.StageReview,
	core.MeetingReleasePlanning: core.StageRelease,
}

// StageFor maps a meeting type to the pipeline stage its decisions belong to.
func StageFor(t core.MeetingType) (core.Stage, error) {
	s, ok := stages[t]
	if !ok {
		return "", fmt.Errorf("%w: no stage for meeting type %q", core.ErrUnknownStage, t)
	}
	return s, nil
}

// Extract scans every turn for DECISION markers. Decisions are returned in
// turn order, then in order of appearance. Unknown meeting types produce
// decisions without a stage.
func Extract(meetingID string, meetingType core.MeetingType, turns []core.MeetingTurn) []core.Decision {
	stage, _ := StageFor(meetingType)

	var out []core.Decision
	for _, turn := range turns {
		for _, d := range parse(turn.Message) {
			d.ID = core.NewID()
			d.MeetingID = meetingID
			d.Stage = stage
			d.MadeBy = turn.Role
			d.Timestamp = turn.Timestamp
			out = append(out, d)
		}
	}
	return out
}

// parse extracts title, description, rationale and alternatives from text.
func parse(text string) []core.Decision {
	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)
	out := make([]core.Decision, 0, len(matches))

	for i, m := range matches {
		title := strings.TrimSpace(text[m[2]:m[3]])
		if title == "" {
			continue
		}

		end := m[1] + WindowSize
		if end > len(text) {
			end = len(text)
		}
		if i+1 < len(matches) && matches[i+1][0] < end {
			end = matches[i+1][0]
		}
		window := text[m[1]:end]

		d := core.Decision{Title: title, Alternatives: []string{}}
		if r := rationalePattern.FindStringSubmatch(window); r != nil {
			d.Rationale = r[1]
		}
		if a := alternativesPattern.FindStringSubmatch(window); a != nil {
			d.Alternatives = splitAlternatives(a[1])
		}
		d.Description = describe(window, title)
		out = append(out, d)
	}
	return out
}

// describe returns the free text following the marker up to the first blank
// line, skipping rationale and alternatives lines. It falls back to title.
func describe(window, title string) string {
	var lines []string
	for _, line := range strings.Split(window, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		if rationalePattern.MatchString(trimmed) || alternativesPattern.MatchString(trimmed) {
			continue
		}
		lines = append(lines, trimmed)
	}
	if len(lines) == 0 {
		return title
	}
	return strings.Join(lines, " ")
}

func splitAlternatives(s string) []string {
	parts := alternativesSplit.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
