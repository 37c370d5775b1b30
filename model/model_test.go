package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Model = (*MockModel)(nil)

func drain(t *testing.T, respCh <-chan Response, errCh <-chan error) ([]Response, error) {
	t.Helper()
	var out []Response
	for r := range respCh {
		out = append(out, r)
	}
	return out, <-errCh
}

func TestMockModel_CannedAndEcho(t *testing.T) {
	m := NewMockModel("mock-1")
	m.AddResponse("hello", "hi there")

	respCh, errCh := m.Generate(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hello"}}})
	out, err := drain(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "hi there", out[0].Content)
	require.NotNil(t, out[0].Usage)
	assert.Equal(t, 1, out[0].Usage.PromptTokens)
	assert.Equal(t, 2, out[0].Usage.CompletionTokens)
	assert.Equal(t, 3, out[0].Usage.TotalTokens)

	respCh, errCh = m.Generate(context.Background(), Request{Messages: []Message{{Role: "user", Content: "other"}}})
	out, err = drain(t, respCh, errCh)
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: other", out[len(out)-1].Content)
	assert.Len(t, m.Calls(), 2)
}

func TestMockModel_Streaming(t *testing.T) {
	m := NewMockModel("mock-1")
	m.AddResponse("q", "a b c")
	respCh, errCh := m.Generate(context.Background(), Request{Stream: true, Messages: []Message{{Role: "user", Content: "q"}}})
	out, err := drain(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, out, 4)
	var sb strings.Builder
	for _, r := range out[:3] {
		assert.True(t, r.Partial)
		sb.WriteString(r.Content)
	}
	assert.Equal(t, "a b c", sb.String())
	assert.False(t, out[3].Partial)
}

func TestMockModel_NoMessages(t *testing.T) {
	m := NewMockModel("mock-1")
	respCh, errCh := m.Generate(context.Background(), Request{})
	_, err := drain(t, respCh, errCh)
	assert.Error(t, err)
}

func TestStatusCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &APIError{Provider: "openai", StatusCode: 429, Err: errors.New("slow down")})
	assert.Equal(t, 429, StatusCode(err))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
	assert.Contains(t, err.Error(), "status 429")
}
