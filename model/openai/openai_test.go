package openai

import (
	"testing"

	"github.com/hupe1980/agentcouncil/model"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ model.Model = (*Model)(nil)

func TestBuildMessages_SystemPromptFirst(t *testing.T) {
	msgs := buildMessages(model.Request{
		SystemPrompt: "You are the architect.",
		Messages: []model.Message{
			{Role: "user", Content: "Design a cache"},
			{Role: "assistant", Content: "LRU"},
			{Role: "user", Content: ""},
		},
	})
	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}

func TestBuildMessages_NoSystemPrompt(t *testing.T) {
	msgs := buildMessages(model.Request{Messages: []model.Message{{Role: "user", Content: "hi"}}})
	require.Len(t, msgs, 1)
	assert.NotNil(t, msgs[0].OfUser)
}

func TestConvertUsage(t *testing.T) {
	u := convertUsage(openai.CompletionUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	assert.Equal(t, 10, u.PromptTokens)
	assert.Equal(t, 5, u.CompletionTokens)
	assert.Equal(t, 15, u.TotalTokens)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.Model = "gpt-4o"
	})
	info := m.Info()
	assert.Equal(t, "gpt-4o", info.Name)
	assert.Equal(t, "openai", info.Provider)
	assert.True(t, info.SupportsStreaming)
}
