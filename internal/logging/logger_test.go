package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"loud", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in, slog.LevelWarn))
		})
	}
}

func TestNewLogger_DebugConfig(t *testing.T) {
	t.Setenv("SPACEGOV_LOG_LEVEL", "")

	log := NewLogger(&config.RuntimeConfig{Debug: true})
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	log = NewLogger(&config.RuntimeConfig{})
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, log.Enabled(context.Background(), slog.LevelWarn))
}

func TestNewLogger_EnvLevel(t *testing.T) {
	t.Setenv("SPACEGOV_LOG_LEVEL", "info")
	log := NewLogger(&config.RuntimeConfig{})
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/chain/runtime.go", shortPath("/home/dev/spacegov/internal/chain/runtime.go"))
	assert.Equal(t, "main.go", shortPath("/elsewhere/main.go"))
}

func TestNewLogger_JSONOutput(t *testing.T) {
	t.Setenv("SPACEGOV_LOG_LEVEL", "")
	var buf bytes.Buffer

	newLogger(&buf, &config.RuntimeConfig{JSON: true}).Warn("replay diverged", "block", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "replay diverged", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.EqualValues(t, 7, line["block"])
	assert.NotContains(t, line, "time")
}
