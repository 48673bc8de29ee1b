package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, InfoLevel)

	l.Debug("hidden")
	require.Zero(t, buf.Len())

	l.Info("connected", String("host", "localhost"), Int("port", 4455), Bool("tls", false))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "connected", entry["message"])
	require.Equal(t, "localhost", entry["host"])
	require.Equal(t, float64(4455), entry["port"])
	require.Equal(t, false, entry["tls"])
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, DebugLevel).WithFields(String("component", "session"))

	l.Warn("dropped response", Error(errors.New("no pending request")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "session", entry["component"])
	require.Equal(t, "no pending request", entry["error"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DebugLevel, ParseLevel("debug"))
	require.Equal(t, WarnLevel, ParseLevel("WARNING"))
	require.Equal(t, InfoLevel, ParseLevel("nonsense"))
}
