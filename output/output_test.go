package output

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func capture(t *testing.T, f func()) string {
	t.Helper()

	var buf bytes.Buffer
	SetWriter(&buf)
	t.Cleanup(func() { SetWriter(nil) })

	f()
	return buf.String()
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name  string
		print func(string)
		icon  string
	}{
		{"success", Success, "🔥"},
		{"error", Error, "❌"},
		{"warn", Warn, "⚠️"},
		{"info", Info, "ℹ️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capture(t, func() { tt.print("block regenerated") })

			if !strings.Contains(got, tt.icon) {
				t.Errorf("output %q missing icon %q", got, tt.icon)
			}
			if !strings.Contains(got, "block regenerated") {
				t.Errorf("output %q missing message", got)
			}
		})
	}
}

func TestStep(t *testing.T) {
	got := capture(t, func() { Step("lines 12-40") })

	if !strings.Contains(got, "   lines 12-40") {
		t.Errorf("step should be indented, got %q", got)
	}
}

func TestVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	if got := capture(t, func() { Verbose("hidden") }); got != "" {
		t.Errorf("verbose output printed while disabled: %q", got)
	}

	SetVerbose(true)
	got := capture(t, func() { Verbose("shown") })
	if !strings.Contains(got, "🔍") || !strings.Contains(got, "shown") {
		t.Errorf("verbose output missing, got %q", got)
	}
}

func TestStyles_UseANSIColors(t *testing.T) {
	styles := map[string]lipgloss.Style{
		"success": successStyle,
		"error":   errorStyle,
		"warn":    warnStyle,
		"info":    infoStyle,
		"step":    stepStyle,
	}
	for name, s := range styles {
		c, ok := s.GetForeground().(lipgloss.Color)
		if !ok {
			t.Errorf("%s: foreground is %T, want lipgloss.Color", name, s.GetForeground())
			continue
		}
		if _, err := strconv.Atoi(string(c)); err != nil {
			t.Errorf("%s: %q is not an ANSI color number", name, c)
		}
	}
}
