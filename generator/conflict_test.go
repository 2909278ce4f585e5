package generator

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolver_Flags(t *testing.T) {
	tests := []struct {
		name              string
		force, skip, diff bool
		wantErr           bool
		want              any
	}{
		{name: "force", force: true, want: ForceStrategy{}},
		{name: "skip", skip: true, want: SkipStrategy{}},
		{name: "diff", diff: true, want: &DiffStrategy{}},
		{name: "interactive", want: &InteractiveStrategy{}},
		{name: "force and skip", force: true, skip: true, wantErr: true},
		{name: "skip and diff", skip: true, diff: true, wantErr: true},
		{name: "all three", force: true, skip: true, diff: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResolver(tt.force, tt.skip, tt.diff, &bytes.Buffer{}, plain)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, r.strategy)
		})
	}
}

func TestNewResolver_DiffGoesToWriter(t *testing.T) {
	var out bytes.Buffer
	r, err := NewResolver(false, false, true, &out, plain)
	require.NoError(t, err)

	s := r.strategy.(*DiffStrategy)
	assert.Same(t, plain, s.Diff)
	next := s.Next.(*InteractiveStrategy)
	assert.Same(t, &out, next.Out)
	assert.Same(t, plain, next.Diff)

	s.Next = SkipStrategy{}
	res, err := r.Resolve("a.h", []byte("old\n"), []byte("new\n"))
	require.NoError(t, err)
	assert.Equal(t, Skip, res)
	assert.Equal(t, "--- a.h\n+++ a.h\n@@ -1,1 +1,1 @@\n-old\n+new\n", out.String())
}

func TestForceAndSkip(t *testing.T) {
	res, err := NewResolverWith(ForceStrategy{}).Resolve("a.h", []byte("a"), []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, Apply, res)

	res, err = NewResolverWith(SkipStrategy{}).Resolve("a.h", []byte("a"), []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, Skip, res)
}

func TestDiffStrategy_PrintsThenDelegates(t *testing.T) {
	var out bytes.Buffer
	s := &DiffStrategy{Out: &out, Next: SkipStrategy{}}

	res, err := s.Resolve("a.h", []byte("old\n"), []byte("new\n"))
	require.NoError(t, err)
	assert.Equal(t, Skip, res)
	assert.Contains(t, out.String(), "old")
	assert.Contains(t, out.String(), "new")
	assert.Contains(t, out.String(), "@@ -1,1 +1,1 @@")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m tea.Model, keys ...string) menuModel {
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m.(menuModel)
}

func TestMenuModel_Navigation(t *testing.T) {
	tests := []struct {
		keys []string
		want Resolution
	}{
		{[]string{"enter"}, Apply},
		{[]string{"down", "enter"}, ShowDiff},
		{[]string{"down", "down", "enter"}, Skip},
		{[]string{"down", "down", "down", "down", "down", "enter"}, Cancel},
		{[]string{"up", "up", "enter"}, Apply},
		{[]string{"j", "j", "k", "enter"}, ShowDiff},
		{[]string{"s"}, Skip},
		{[]string{"a"}, Apply},
		{[]string{"d"}, ShowDiff},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			m := press(newMenuModel("a.h", DiffStats{}), tt.keys...)
			require.NotNil(t, m.selected)
			assert.Equal(t, tt.want, *m.selected)
		})
	}
}

func TestMenuModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m := newMenuModel("a.h", DiffStats{})
		next, cmd := m.Update(key(k))
		assert.Nil(t, next.(menuModel).selected, k)
		require.NotNil(t, cmd, k)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
	}
}

func TestMenuModel_View(t *testing.T) {
	m := newMenuModel("src/qlocale_data_p.h", DiffStats{Added: 3, Removed: 2})
	view := m.View()

	assert.Contains(t, view, "src/qlocale_data_p.h")
	assert.Contains(t, view, "3 line(s) added, 2 removed")
	assert.Contains(t, view, "> Apply")
	assert.Contains(t, view, "Skip (leave the file as it is)")
}

func TestDiffViewer_SizesViewport(t *testing.T) {
	diff := strings.Repeat("+line\n", 100)
	var m tea.Model = newDiffViewer("a.h", diff)

	assert.Equal(t, "Loading diff...", m.View())

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	v := m.(diffViewer)
	assert.True(t, v.ready)
	assert.Equal(t, 78, v.viewport.Width)
	assert.Equal(t, 20, v.viewport.Height)
	assert.Contains(t, m.View(), "a.h")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStyles_UseANSIColors(t *testing.T) {
	styles := map[string]lipgloss.Style{
		"warning":  warningStyle,
		"selected": selectedStyle,
		"muted":    mutedStyle,
		"header":   headerStyle,
		"hunk":     hunkStyle,
	}
	for name, s := range styles {
		c, ok := s.GetForeground().(lipgloss.Color)
		require.True(t, ok, name)
		_, err := strconv.Atoi(string(c))
		assert.NoError(t, err, "%s uses color %q", name, c)
	}
}

func TestResolution_String(t *testing.T) {
	assert.Equal(t, "apply", Apply.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "show diff", ShowDiff.String())
	assert.Equal(t, "cancel", Cancel.String())
}
