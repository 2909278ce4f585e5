package input

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestConfirmFrom(t *testing.T) {
	tests := []struct {
		answer     string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"  yes  \n", false, true},
		{"n\n", true, false},
		{"nope\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"", true, true},
		{"y", false, true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmFrom(strings.NewReader(tt.answer), &out, "Overwrite?", tt.defaultYes)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Overwrite?")
		})
	}
}

func TestConfirmFrom_Hint(t *testing.T) {
	var out bytes.Buffer
	ConfirmFrom(strings.NewReader("\n"), &out, "Q", true)
	assert.Contains(t, out.String(), "[Y/n]")

	out.Reset()
	ConfirmFrom(strings.NewReader("\n"), &out, "Q", false)
	assert.Contains(t, out.String(), "[y/N]")
}

func TestPromptStyles_UseANSIColors(t *testing.T) {
	for _, s := range []lipgloss.Style{promptStyle, hintStyle} {
		c, ok := s.GetForeground().(lipgloss.Color)
		assert.True(t, ok)
		_, err := strconv.Atoi(string(c))
		assert.NoError(t, err, "color %q", c)
	}
}
