package artifact

import (
	"fmt"

	"github.com/hupe1980/agentcouncil/core"
)

var extensions = map[string]string{
	"go":         ".go",
	"python":     ".py",
	"py":         ".py",
	"javascript": ".js",
	"js":         ".js",
	"typescript": ".ts",
	"ts":         ".ts",
	"sql":        ".sql",
	"yaml":       ".yaml",
	"yml":        ".yaml",
	"json":       ".json",
	"bash":       ".sh",
	"sh":         ".sh",
	"dockerfile": ".dockerfile",
	"markdown":   ".md",
	"md":         ".md",
}

// FileName returns the storage id of an artifact: its id plus an extension
// derived from the code block language.
func FileName(a core.Artifact) string {
	ext, ok := extensions[a.Language]
	if !ok {
		ext = ".txt"
	}
	return fmt.Sprintf("turn%02d-%s%s", a.Turn, a.ID, ext)
}

// SaveAll writes every artifact of a meeting into store and returns the
// stored ids in input order.
func SaveAll(store core.ArtifactStore, meetingID string, artifacts []core.Artifact) ([]string, error) {
	ids := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		id := FileName(a)
		if err := store.Save(meetingID, id, []byte(a.Code)); err != nil {
			return ids, fmt.Errorf("save artifact %s: %w", id, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
