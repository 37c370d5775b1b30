package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/agentcouncil/artifact"
	"github.com/hupe1980/agentcouncil/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ core.ResultStore   = (*Store)(nil)
	_ core.ArtifactStore = (*Store)(nil)
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "council.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Session(t *testing.T) {
	s := openStore(t)

	sess := core.NewSession("demo", core.StrategyCompetitive)
	sess.SetAssignments(map[core.Role]string{core.RoleArchitect: "claude"})
	require.NoError(t, s.SaveSession(sess))

	sess.SetStatus(core.SessionCompleted)
	require.NoError(t, s.SaveSession(sess))

	got, err := s.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Name)
	assert.Equal(t, core.SessionCompleted, got.Status)
	assert.Equal(t, core.StrategyCompetitive, got.Strategy)
	assert.Equal(t, "claude", got.Assignments[core.RoleArchitect])
	assert.WithinDuration(t, sess.Created, got.Created, time.Millisecond)

	_, err = s.Session("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Orchestrations(t *testing.T) {
	s := openStore(t)

	res := &core.OrchestrationResult{
		ID:          "o1",
		Strategy:    core.StrategySequential,
		FinalOutput: "final",
		Responses:   []core.AgentResponse{{Agent: "a", Content: "final", TokensUsed: core.TokenUsage{TotalTokens: 7}}},
		TokenUsage:  core.TokenUsage{TotalTokens: 7},
	}
	require.NoError(t, s.SaveOrchestration("s1", res))

	got, err := s.Orchestrations("s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "final", got[0].FinalOutput)
	assert.Equal(t, 7, got[0].TokenUsage.TotalTokens)
	require.Len(t, got[0].Responses, 1)
	assert.Equal(t, "a", got[0].Responses[0].Agent)
}

func TestStore_MeetingAndDecisions(t *testing.T) {
	s := openStore(t)

	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	m := &core.MeetingResult{
		ID:      "m1",
		Agenda:  core.MeetingAgenda{Title: "Arch", Type: core.MeetingArchitecture, Leader: core.RoleArchitect},
		Summary: "we picked postgres",
		Decisions: []core.Decision{
			{ID: "d1", MeetingID: "m1", Stage: core.StageArchitecture, Title: "Use Postgres", Rationale: "JSONB", Alternatives: []string{"MySQL", "MongoDB"}, MadeBy: core.RoleArchitect, Timestamp: ts},
			{ID: "d2", MeetingID: "m1", Stage: core.StageArchitecture, Title: "Use gRPC", Alternatives: []string{}, MadeBy: core.RoleCTO, Timestamp: ts},
		},
	}
	require.NoError(t, s.SaveMeeting("s1", m))

	decisions, err := s.Decisions("m1")
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.Equal(t, "Use Postgres", decisions[0].Title)
	assert.Equal(t, []string{"MySQL", "MongoDB"}, decisions[0].Alternatives)
	assert.True(t, ts.Equal(decisions[0].Timestamp))
	assert.Equal(t, core.RoleCTO, decisions[1].MadeBy)

	all, err := s.AllDecisions()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := s.Decisions("other")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := s.Meeting("m1")
	require.NoError(t, err)
	assert.Equal(t, "we picked postgres", got.Summary)
	assert.Equal(t, core.MeetingArchitecture, got.Agenda.Type)

	_, err = s.Meeting("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Artifacts(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Save("m1", "b.go", []byte("package b")))
	require.NoError(t, s.Save("m1", "a.sql", []byte("select 1")))
	require.NoError(t, s.Save("m1", "a.sql", []byte("select 2")))

	ids, err := s.List("m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.sql", "b.go"}, ids)

	data, err := s.Get("m1", "a.sql")
	require.NoError(t, err)
	assert.Equal(t, "select 2", string(data))

	require.NoError(t, s.Delete("m1", "a.sql"))
	assert.ErrorIs(t, s.Delete("m1", "a.sql"), artifact.ErrNotFound)
	_, err = s.Get("m1", "a.sql")
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save("m", "x", []byte("y")))
	ids, err := s.List("m")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids)
}
