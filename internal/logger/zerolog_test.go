package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "input %q", tt.in)
	}
}

func TestZerologAdapterWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Info("Outline", "edge pass done", map[string]interface{}{"black_pixels": 12})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Outline", entry["component"])
	assert.Equal(t, "edge pass done", entry["message"])
	assert.EqualValues(t, 12, entry["black_pixels"])
}

func TestZerologAdapterError(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Error("ImageSaver", errors.New("disk full"), nil)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "disk full", entry["error"])
}

func TestZerologAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.WarnLevel)

	log.Debug("Outline", "hidden", nil)
	log.Info("Outline", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Warning("Outline", "shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleLoggerWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, zerolog.InfoLevel)

	log.Info("ImageSaver", "image saved", map[string]interface{}{"path": "out.png"})
	log.Debug("ImageSaver", "hidden", nil)

	assert.Contains(t, buf.String(), "image saved")
	assert.Contains(t, buf.String(), "out.png")
	assert.NotContains(t, buf.String(), "hidden")
}
