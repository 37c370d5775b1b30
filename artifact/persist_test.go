package artifact

import (
	"testing"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAll(t *testing.T) {
	store := NewInMemoryStore()
	ids, err := SaveAll(store, "m1", []core.Artifact{
		{ID: "x", Language: "go", Code: "package main", Turn: 2},
		{ID: "y", Language: "", Code: "plain", Turn: 11},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"turn02-x.go", "turn11-y.txt"}, ids)

	data, err := store.Get("m1", "turn02-x.go")
	require.NoError(t, err)
	assert.Equal(t, "package main", string(data))

	listed, err := store.List("m1")
	require.NoError(t, err)
	assert.Equal(t, ids, listed)
}
