package agent

import (
	"testing"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertHistory(t *testing.T) {
	history := []core.Message{
		core.NewUserMessage("Design a cache"),
		core.NewAssistantMessage("claude", "architect", "Use an LRU"),
		core.NewAssistantMessage("gpt", "developer", "Implemented it"),
		core.NewAssistantMessage("claude", "reviewer", "Looks good"),
	}

	t.Run("from claude", func(t *testing.T) {
		msgs := ConvertHistory("claude", history)
		require.Len(t, msgs, 5)
		assert.Equal(t, "user", msgs[0].Role)
		assert.Equal(t, "assistant", msgs[1].Role)
		assert.Equal(t, "[as architect]: Use an LRU", msgs[1].Content)
		assert.Equal(t, "user", msgs[2].Role)
		assert.Equal(t, "[gpt as developer]: Implemented it", msgs[2].Content)
		assert.Equal(t, "assistant", msgs[3].Role)
		assert.Equal(t, "[as reviewer]: Looks good", msgs[3].Content)
		assert.Equal(t, "user", msgs[4].Role)
		assert.Equal(t, continuePrompt, msgs[4].Content)
	})

	t.Run("from gpt merges consecutive user content", func(t *testing.T) {
		msgs := ConvertHistory("gpt", history)
		require.Len(t, msgs, 3)
		assert.Equal(t, "user", msgs[0].Role)
		assert.Equal(t, "Design a cache\n\n[claude as architect]: Use an LRU", msgs[0].Content)
		assert.Equal(t, "assistant", msgs[1].Role)
		assert.Equal(t, "[as developer]: Implemented it", msgs[1].Content)
		assert.Equal(t, "user", msgs[2].Role)
		assert.Equal(t, "[claude as reviewer]: Looks good", msgs[2].Content)
	})
}

func TestConvertHistory_SingleAgentKeepsRolesAndEndsWithUser(t *testing.T) {
	msgs := ConvertHistory("solo", []core.Message{
		core.NewUserMessage("Design a cache"),
		core.NewAssistantMessage("solo", "architect", "Use an LRU"),
		core.NewAssistantMessage("solo", "developer", "func Get() {}"),
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "[as architect]: Use an LRU\n\n[as developer]: func Get() {}", msgs[1].Content)
	assert.Equal(t, "user", msgs[len(msgs)-1].Role)
}

func TestConvertHistory_SkipsBlankAndUntagged(t *testing.T) {
	msgs := ConvertHistory("me", []core.Message{
		core.NewUserMessage("   "),
		{Role: core.MessageRoleAssistant, Agent: "other", Content: "hello"},
	})
	require.Len(t, msgs, 1)
	assert.Equal(t, "[other]: hello", msgs[0].Content)
}
