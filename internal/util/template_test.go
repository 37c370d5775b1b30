package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	t.Run("fast path", func(t *testing.T) {
		out, err := RenderTemplate("plain <text>", nil)
		require.NoError(t, err)
		assert.Equal(t, "plain <text>", out)
	})

	t.Run("no html escaping", func(t *testing.T) {
		out, err := RenderTemplate("Hi {{.name}}", map[string]any{"name": "<Ada & co>"})
		require.NoError(t, err)
		assert.Equal(t, "Hi <Ada & co>", out)
	})

	t.Run("helpers", func(t *testing.T) {
		out, err := RenderTemplate(`{{upper .a}} {{default "x" .missing}} {{join ", " .list}}`, map[string]any{
			"a":    "go",
			"list": []string{"cto", "architect"},
		})
		require.NoError(t, err)
		assert.Equal(t, "GO x cto, architect", out)
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := RenderTemplate("{{.unclosed", nil)
		assert.Error(t, err)
	})
}

func TestMustParseExecute(t *testing.T) {
	tmpl := MustParse("t", "{{title .Name}}")
	out, err := Execute(tmpl, struct{ Name string }{Name: "aDA"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", out)
}
