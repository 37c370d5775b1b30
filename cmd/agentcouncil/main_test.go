package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcouncil/config"
	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "council.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_DefaultMockProvider(t *testing.T) {
	out, err := execute(t, "run", "--strategy", "sequential", "design", "a", "cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Mock response to: design a cache")
	assert.Contains(t, out, "sequential")
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "--json", "run", "-s", "parallel", "hello")
	require.NoError(t, err)

	var res core.OrchestrationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, core.StrategyParallel, res.Strategy)
	assert.NotEmpty(t, res.FinalOutput)
	assert.Positive(t, res.TokenUsage.TotalTokens)
}

func TestRun_UnknownStrategy(t *testing.T) {
	_, err := execute(t, "run", "--strategy", "democratic", "hello")
	assert.ErrorIs(t, err, core.ErrUnknownStrategy)
}

func TestMeeting(t *testing.T) {
	out, err := execute(t, "meeting", "--type", "architecture", "--max-turns", "3",
		"-p", "architect,developer", "pick a database")
	require.NoError(t, err)
	assert.Contains(t, out, "# architecture meeting (architecture)")
	assert.Contains(t, out, "Turn 3")
	assert.Contains(t, out, "## Summary")
}

func TestMeeting_UnknownRole(t *testing.T) {
	_, err := execute(t, "meeting", "-p", "janitor", "clean up")
	assert.ErrorIs(t, err, core.ErrUnknownRole)
}

func TestProject_WatchRequiresConfig(t *testing.T) {
	_, err := execute(t, "project", "--watch", "todo", "a todo app")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--config")
}

func TestProject_PersistsDecisionsStore(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
meeting:
  max_turns: 2
providers:
  - name: alpha
    provider: mock
  - name: beta
    provider: mock
assignments:
  tech_lead: beta
store:
  path: `+filepath.Join(dir, "council.db")+`
`)

	out, err := execute(t, "--config", path, "project", "todo", "a", "todo", "app")
	require.NoError(t, err)
	assert.Contains(t, out, "# todo")
	assert.Contains(t, out, "5 stages")

	out, err = execute(t, "--config", path, "--json", "decisions")
	require.NoError(t, err)

	var list []core.Decision
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Empty(t, list)
}

func TestRoles(t *testing.T) {
	path := writeConfig(t, `
providers:
  - name: alpha
    provider: mock
  - name: beta
    provider: mock
assignments:
  architect: alpha
`)

	out, err := execute(t, "--config", path, "roles")
	require.NoError(t, err)
	assert.Contains(t, out, "ROLE")
	assert.Regexp(t, `architect\s+Software Architect\s+alpha\n`, out)
	assert.Contains(t, out, "(default)")
}

func TestDecisions_RequiresStore(t *testing.T) {
	_, err := execute(t, "decisions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.path")
}

func TestInvalidConfig(t *testing.T) {
	path := writeConfig(t, "log: {format: xml}\n")
	_, err := execute(t, "--config", path, "roles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestBuildRegistry(t *testing.T) {
	cfg, err := config.Parse([]byte(`
providers:
  - name: claude
    provider: anthropic
    api_key_env: NOT_SET_IN_TESTS
    roles: [architect]
    context_window: 200000
  - name: gpt
    provider: openai
    model: gpt-4o-mini
  - name: local
    provider: mock
`))
	require.NoError(t, err)

	reg, err := buildRegistry(cfg, logging.NoOpLogger{})
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "gpt", "local"}, reg.Names())

	claude, err := reg.Get("claude")
	require.NoError(t, err)
	assert.Equal(t, []core.Role{core.RoleArchitect}, claude.Capabilities().Roles)
	assert.Equal(t, 200000, claude.Capabilities().ContextWindow)
}

func TestRun_LogsCarryComponentAndSession(t *testing.T) {
	path := writeConfig(t, `
providers:
  - name: solo
    provider: mock
`)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--config", path, "--log-level", "info", "--log-format", "json", "run", "-s", "parallel", "hello"})
	require.NoError(t, cmd.Execute())

	byMsg := map[string]map[string]any{}
	for _, line := range strings.Split(strings.TrimSpace(errOut.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		byMsg[entry["msg"].(string)] = entry
	}

	call, ok := byMsg["agent call completed"]
	require.True(t, ok, errOut.String())
	assert.Equal(t, "agent", call["component"])
	assert.Equal(t, "solo", call["agent"])
	assert.Equal(t, path, call["config"])

	timer, ok := byMsg["operation completed"]
	require.True(t, ok, errOut.String())
	assert.Equal(t, "cli", timer["component"])
	assert.Equal(t, "run", timer["operation"])
	assert.NotEmpty(t, timer["session_id"])
}
