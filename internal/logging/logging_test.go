package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		mode string
		want zerolog.Level
	}{
		{"Debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" debug ", zerolog.DebugLevel},
		{"Info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMode(tt.mode))
		})
	}
}

func TestNewLogger_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info")

	log.Info().Msg("weather fetched")
	log.Debug().Msg("hidden at info")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], " INFO - weather fetched")
	assert.Contains(t, lines[0], "run_id=")
	assert.NotContains(t, out, "hidden at info")
}

func TestNewLogger_DebugMode(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "Debug")

	log.Debug().Msg("payload")
	assert.Contains(t, buf.String(), "DEBUG - payload")
}

func TestNew_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "weather.log")

	for i := 0; i < 2; i++ {
		log, closer, err := New(path, "info")
		require.NoError(t, err)
		log.Info().Int("run", i).Msg("start")
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "INFO - start"))
}
