package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"DEBUG ":  zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", JSON: true, Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("language", "python").Msg("normalized")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "normalized", entry["message"])
	assert.Equal(t, "python", entry["language"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", NoColor: true, Output: &buf})

	log.Info().Msg("quiet")
	log.Warn().Str("id", "alice").Msg("duplicate id")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "duplicate id")
	assert.Contains(t, out, "id=alice")
}
