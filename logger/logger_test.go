package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(l Logger) {
	l.(*standardLogger).now = func() time.Time {
		return time.Date(2025, 10, 7, 9, 30, 0, 0, time.UTC)
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelWarn, &buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	got := buf.String()
	assert.NotContains(t, got, "debug message")
	assert.NotContains(t, got, "info message")
	assert.Contains(t, got, "[WARN] warn message")
	assert.Contains(t, got, "[ERROR] error message")
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelDebug, &buf)
	fixedClock(log)

	log.Info("block regenerated", F("path", "a.h"), F("lines", 12))

	assert.Equal(t, "2025-10-07 09:30:00 [INFO] block regenerated | path=a.h lines=12\n", buf.String())
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := New(LevelInfo, &buf)
	child := base.WithFields(F("target", "locale"))

	child.Info("rendering", F("template", "locale.tmpl"))
	base.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "rendering | target=locale template=locale.tmpl"))
	assert.True(t, strings.HasSuffix(lines[1], "[INFO] plain"))
}

func TestLogger_SetLevelSharedWithChildren(t *testing.T) {
	var buf bytes.Buffer
	base := New(LevelInfo, &buf)
	child := base.WithFields(F("k", "v"))

	base.SetLevel(LevelError)
	child.Info("suppressed")
	assert.Empty(t, buf.String())
}

func TestNewSilent(t *testing.T) {
	log := NewSilent()
	log.Error("nothing happens")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "SILENT", LevelSilent.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}
