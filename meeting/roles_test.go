package meeting

import (
	"testing"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoles(t *testing.T) {
	roles := Roles()
	require.Len(t, roles, 10)
	for _, r := range roles {
		assert.NotEmpty(t, r.Title, r.ID)
		assert.NotEmpty(t, r.Persona, r.ID)
	}
	assert.Equal(t, 3, RoleIndex(core.RoleArchitect))
	assert.Equal(t, -1, RoleIndex("janitor"))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" QA_Engineer ")
	require.NoError(t, err)
	assert.Equal(t, core.RoleQAEngineer, r)

	_, err = ParseRole("janitor")
	assert.ErrorIs(t, err, core.ErrUnknownRole)
}

func TestMentions(t *testing.T) {
	roster := []core.Role{core.RoleCTO, core.RoleProductManager, core.RoleQAEngineer, core.RoleArchitect}

	tests := []struct {
		text string
		want []core.Role
	}{
		{"no mentions here", nil},
		{"@cto please confirm", []core.Role{core.RoleCTO}},
		{"@Product Manager, thoughts?", []core.Role{core.RoleProductManager}},
		{"cc @QA_ENGINEER and @software architect", []core.Role{core.RoleQAEngineer, core.RoleArchitect}},
		{"@chief technology officer @cto", []core.Role{core.RoleCTO}},
		{"@designer is not in this meeting", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mentions(tt.text, roster), tt.text)
	}
}

func TestExtractArtifacts(t *testing.T) {
	turns := []core.MeetingTurn{
		{Number: 1, Role: core.RoleDeveloper, Message: "Here:\n```go\nfunc main() {}\n```\nand\n```\necho hi\n```"},
		{Number: 2, Role: core.RoleQAEngineer, Message: "```python\n\n```"},
	}
	got := ExtractArtifacts(turns)
	require.Len(t, got, 2)
	assert.Equal(t, "go", got[0].Language)
	assert.Equal(t, "func main() {}", got[0].Code)
	assert.Equal(t, core.RoleDeveloper, got[0].Role)
	assert.Equal(t, "", got[1].Language)
	assert.Equal(t, "echo hi", got[1].Code)
}
