package decision

import (
	"testing"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	l := NewLog()
	l.Add(
		core.Decision{ID: "1", MeetingID: "m1", Stage: core.StageArchitecture, Title: "Use Postgres", Rationale: "JSONB", Alternatives: []string{"MySQL"}},
		core.Decision{ID: "2", MeetingID: "m1", Stage: core.StageArchitecture, Title: "Use gRPC"},
		core.Decision{ID: "3", MeetingID: "m2", Stage: core.StageRelease, Title: "Ship on Friday", Description: "after postgres migration"},
	)

	assert.Equal(t, 3, l.Len())
	assert.Len(t, l.ByMeeting("m1"), 2)
	assert.Empty(t, l.ByMeeting("missing"))
	assert.Len(t, l.ByStage(core.StageRelease), 1)

	hits := l.Search("postgres", 0)
	require.Len(t, hits, 2)
	assert.Equal(t, "1", hits[0].ID)
	assert.Equal(t, "3", hits[1].ID)
	assert.Len(t, l.Search("", 1), 1)

	all := l.All()
	all[0].Alternatives[0] = "changed"
	assert.Equal(t, "MySQL", l.All()[0].Alternatives[0])
}
