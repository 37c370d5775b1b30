package anthropic

import (
	"testing"

	"github.com/hupe1980/agentcouncil/model"
	"github.com/stretchr/testify/assert"
)

var _ model.Model = (*Model)(nil)

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.MaxTokens = 1024
	})
	info := m.Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.NotEmpty(t, info.Name)
	assert.Equal(t, int64(1024), m.opts.MaxTokens)
	assert.InDelta(t, 0.7, m.opts.Temperature, 1e-9)
}

func TestBuildMessages_SkipsEmptyAndMapsRoles(t *testing.T) {
	msgs := buildMessages([]model.Message{
		{Role: "user", Content: "design a cache"},
		{Role: "assistant", Content: ""},
		{Role: "assistant", Content: "use an LRU"},
		{Role: "other", Content: "treated as user"},
	})
	assert.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}
