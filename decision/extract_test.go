package decision

import (
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turn(role core.Role, msg string) core.MeetingTurn {
	return core.MeetingTurn{Number: 1, Role: role, Agent: "a", Message: msg, Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func TestExtract_Postgres(t *testing.T) {
	turns := []core.MeetingTurn{turn(core.RoleArchitect, "DECISION: Use Postgres\nRationale: JSONB support\nAlternatives: MySQL, MongoDB")}

	got := Extract("m-1", core.MeetingArchitecture, turns)
	require.Len(t, got, 1)

	d := got[0]
	assert.Equal(t, "Use Postgres", d.Title)
	assert.Equal(t, "JSONB support", d.Rationale)
	assert.Equal(t, []string{"MySQL", "MongoDB"}, d.Alternatives)
	assert.Equal(t, "m-1", d.MeetingID)
	assert.Equal(t, core.StageArchitecture, d.Stage)
	assert.Equal(t, core.RoleArchitect, d.MadeBy)
	assert.Equal(t, turns[0].Timestamp, d.Timestamp)
	assert.NotEmpty(t, d.ID)
}

func TestExtract_MultipleDecisionsDoNotShareDetails(t *testing.T) {
	text := `Some discussion first.
DECISION: Adopt Go
Because: team experience
DECISION: Deploy on Kubernetes
Other options: Nomad; bare VMs`

	got := Extract("m", core.MeetingKickoff, []core.MeetingTurn{turn(core.RoleCTO, text)})
	require.Len(t, got, 2)

	assert.Equal(t, "Adopt Go", got[0].Title)
	assert.Equal(t, "team experience", got[0].Rationale)
	assert.Empty(t, got[0].Alternatives)

	assert.Equal(t, "Deploy on Kubernetes", got[1].Title)
	assert.Empty(t, got[1].Rationale)
	assert.Equal(t, []string{"Nomad", "bare VMs"}, got[1].Alternatives)
	assert.Equal(t, core.StageRequirements, got[1].Stage)
}

func TestExtract_Window(t *testing.T) {
	text := "DECISION: Cache responses\n" + strings.Repeat("x", WindowSize+10) + "\nRationale: too far away"
	got := Extract("m", core.MeetingStandup, []core.MeetingTurn{turn(core.RoleDeveloper, text)})
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Rationale)
}

func TestExtract_Description(t *testing.T) {
	text := "DECISION: Use gRPC\nInternal services talk gRPC.\nWhy: typed contracts\n\nunrelated text"
	got := Extract("m", core.MeetingArchitecture, []core.MeetingTurn{turn(core.RoleTechLead, text)})
	require.Len(t, got, 1)
	assert.Equal(t, "Internal services talk gRPC.", got[0].Description)
	assert.Equal(t, "typed contracts", got[0].Rationale)
}

func TestExtract_NoMarker(t *testing.T) {
	got := Extract("m", core.MeetingStandup, []core.MeetingTurn{
		turn(core.RoleDeveloper, "We decided: use Redis"),
		turn(core.RoleDeveloper, "decision - maybe later"),
	})
	assert.Empty(t, got)
}

func TestExtract_CaseInsensitiveMarker(t *testing.T) {
	got := Extract("m", core.MeetingCodeReview, []core.MeetingTurn{turn(core.RoleQAEngineer, "  decision: add fuzz tests")})
	require.Len(t, got, 1)
	assert.Equal(t, "add fuzz tests", got[0].Title)
	assert.Equal(t, core.StageReview, got[0].Stage)
}

func TestStageFor(t *testing.T) {
	tests := map[core.MeetingType]core.Stage{
		core.MeetingKickoff:         core.StageRequirements,
		core.MeetingRequirements:    core.StageRequirements,
		core.MeetingArchitecture:    core.StageArchitecture,
		core.MeetingSprintPlanning:  core.StageImplementation,
		core.MeetingStandup:         core.StageImplementation,
		core.MeetingCodeReview:      core.StageReview,
		core.MeetingRetrospective:   core.StageReview,
		core.MeetingReleasePlanning: core.StageRelease,
	}
	for mt, want := range tests {
		got, err := StageFor(mt)
		require.NoError(t, err)
		assert.Equal(t, want, got, mt)
	}

	_, err := StageFor("brainstorm")
	assert.ErrorIs(t, err, core.ErrUnknownStage)
}
