package meeting

import (
	"strings"

	"github.com/hupe1980/agentcouncil/core"
)

// Mentions returns the roles in roster addressed in text with "@". A role
// matches by id, by id with underscores as spaces, or by title, all
// case-insensitively. Results follow roster order without duplicates.
func Mentions(text string, roster []core.Role) []core.Role {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "@") {
		return nil
	}

	var out []core.Role
	seen := make(map[core.Role]bool, len(roster))
	for _, r := range roster {
		if seen[r] {
			continue
		}
		for _, alias := range aliases(r) {
			if strings.Contains(lower, "@"+alias) {
				out = append(out, r)
				seen[r] = true
				break
			}
		}
	}
	return out
}

func aliases(r core.Role) []string {
	id := strings.ToLower(string(r))
	out := []string{id}
	if spaced := strings.ReplaceAll(id, "_", " "); spaced != id {
		out = append(out, spaced)
	}
	if info, ok := LookupRole(r); ok {
		out = append(out, strings.ToLower(info.Title))
	}
	return out
}
