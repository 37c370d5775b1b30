package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"", LogLevelInfo, false},
		{"WARN", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"loud", LogLevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSlogLogger_KeyValueArgsAndContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf}).
		WithComponent("strategy").
		WithSession("sess-1")

	l.Info("phase started", "phase", "fan-out")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "phase started", entry["msg"])
	assert.Equal(t, "strategy", entry["component"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.Equal(t, "fan-out", entry["phase"])
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})
	l.Info("hidden")
	l.Debug("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogAgentCall(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})
	LogAgentCall(l, "claude", "sonnet", 42, time.Second, errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "agent call failed", entry["msg"])
	assert.Equal(t, "claude", entry["agent"])
	assert.Equal(t, false, entry["success"])
	assert.Equal(t, "boom", entry["error"])

	// Loggers without the dedicated method still work.
	LogAgentCall(NoOpLogger{}, "a", "m", 1, time.Millisecond, nil)
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Debug("meeting.turn", "turn", 2)
	l.Warn("store.close.failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, float64(2), entry["turn"])

	// The adapter has no dedicated call method, so LogAgentCall falls back
	// to a plain entry.
	buf.Reset()
	LogAgentCall(l, "gpt", "gpt-4o", 7, time.Millisecond, nil)
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "agent call completed", entry["msg"])
	assert.Equal(t, float64(7), entry["token_count"])

	assert.IsType(t, &SlogAdapter{}, NewDefaultSlogLogger())
}

func TestSlogLogger_WithContextDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})
	scoped := base.WithContext("config", "council.yaml")

	base.Info("plain")
	scoped.Info("scoped")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var plain, withCtx map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &plain))
	require.NoError(t, json.Unmarshal(lines[1], &withCtx))
	assert.NotContains(t, plain, "config")
	assert.Equal(t, "council.yaml", withCtx["config"])
}
