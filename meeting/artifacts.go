package meeting

import (
	"regexp"
	"strings"

	"github.com/hupe1980/agentcouncil/core"
)

var fencePattern = regexp.MustCompile("(?s)```([A-Za-z0-9_+#.-]*)[^\\n]*\\n(.*?)```")

// ExtractArtifacts returns every fenced code block found in turns, in turn
// order. Empty blocks are skipped.
func ExtractArtifacts(turns []core.MeetingTurn) []core.Artifact {
	var out []core.Artifact
	for _, t := range turns {
		for _, m := range fencePattern.FindAllStringSubmatch(t.Message, -1) {
			code := strings.TrimRight(m[2], "\n")
			if strings.TrimSpace(code) == "" {
				continue
			}
			out = append(out, core.Artifact{
				ID:       core.NewID(),
				Language: strings.ToLower(m[1]),
				Code:     code,
				Role:     t.Role,
				Turn:     t.Number,
			})
		}
	}
	return out
}
