package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
}

func TestInfoWritesStructuredEntry(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Info("converged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "converged", entry["message"])
	require.Equal(t, "info", entry["level"])
}

func TestWithAttachesFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	log.With(map[string]any{"resource": "profile_file"}).Debug("checking")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "profile_file", entry["resource"])
}

func TestHumanReadableUsesConsoleWriter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", HumanReadable: true, Writer: buf})
	require.NoError(t, err)

	log.Info("converged")

	require.Contains(t, buf.String(), "converged")
	var entry map[string]any
	require.Error(t, json.Unmarshal(buf.Bytes(), &entry), "console output is not JSON")
}

func TestDebugSuppressedBelowLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "warn", Writer: buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("also hidden")
	require.Zero(t, buf.Len())
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var log *Logger
	require.Nil(t, log.With(map[string]any{"k": "v"}))
	log.Info("no panic")
	log.Error(nil, "no panic either")
}
