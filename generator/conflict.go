package generator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Resolution is the decision for a block whose regeneration changes a file.
type Resolution int

const (
	Apply Resolution = iota
	Skip
	ShowDiff
	Cancel
)

func (r Resolution) String() string {
	switch r {
	case Apply:
		return "apply"
	case Skip:
		return "skip"
	case ShowDiff:
		return "show diff"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
}

// Strategy decides what to do with a pending change to path.
type Strategy interface {
	Resolve(path string, before, after []byte) (Resolution, error)
}

// Resolver asks its Strategy about every change before it is written.
type Resolver struct {
	strategy Strategy
}

// NewResolver picks a strategy from the CLI flags. force, skip and diff are
// mutually exclusive; with none set the user is asked interactively. Diffs
// are printed to out with diffOpts.
func NewResolver(force, skip, diff bool, out io.Writer, diffOpts *DiffOptions) (*Resolver, error) {
	set := 0
	for _, f := range []bool{force, skip, diff} {
		if f {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("--force, --skip and --diff are mutually exclusive")
	}

	switch {
	case force:
		return &Resolver{strategy: ForceStrategy{}}, nil
	case skip:
		return &Resolver{strategy: SkipStrategy{}}, nil
	case diff:
		next := &InteractiveStrategy{Out: out, Diff: diffOpts}
		return &Resolver{strategy: &DiffStrategy{Out: out, Diff: diffOpts, Next: next}}, nil
	default:
		return &Resolver{strategy: &InteractiveStrategy{Out: out, Diff: diffOpts}}, nil
	}
}

// NewResolverWith wraps a custom strategy.
func NewResolverWith(s Strategy) *Resolver {
	return &Resolver{strategy: s}
}

// Resolve returns the decision for a change to path.
func (r *Resolver) Resolve(path string, before, after []byte) (Resolution, error) {
	return r.strategy.Resolve(path, before, after)
}

// ForceStrategy applies every change.
type ForceStrategy struct{}

func (ForceStrategy) Resolve(string, []byte, []byte) (Resolution, error) {
	return Apply, nil
}

// SkipStrategy keeps every file as it is.
type SkipStrategy struct{}

func (SkipStrategy) Resolve(string, []byte, []byte) (Resolution, error) {
	return Skip, nil
}

// DiffStrategy prints the diff to Out (stdout when nil) and then defers to
// Next.
type DiffStrategy struct {
	Out  io.Writer
	Diff *DiffOptions
	Next Strategy

	diffGen DiffGenerator
}

func (s *DiffStrategy) Resolve(path string, before, after []byte) (Resolution, error) {
	fmt.Fprint(writerOr(s.Out), s.diffGen.GenerateDiff(path, path, before, after, s.Diff))
	return s.Next.Resolve(path, before, after)
}

// InteractiveStrategy shows a menu. Choosing "Show diff" prints the diff to
// Out (or opens a scrollable viewer for long diffs) and asks again.
type InteractiveStrategy struct {
	Out  io.Writer
	Diff *DiffOptions

	diffGen DiffGenerator
}

// inlineDiffLines is the longest diff printed without the viewer.
const inlineDiffLines = 20

func (s *InteractiveStrategy) Resolve(path string, before, after []byte) (Resolution, error) {
	stats := s.diffGen.Stats(before, after)

	for {
		final, err := tea.NewProgram(newMenuModel(path, stats)).Run()
		if err != nil {
			return Cancel, fmt.Errorf("showing menu: %w", err)
		}

		choice := final.(menuModel).selected
		if choice == nil {
			return Cancel, nil
		}
		if *choice != ShowDiff {
			return *choice, nil
		}

		diff := s.diffGen.GenerateDiff(path, path, before, after, s.Diff)
		if strings.Count(diff, "\n") <= inlineDiffLines {
			fmt.Fprint(writerOr(s.Out), diff)
			continue
		}
		if _, err := tea.NewProgram(newDiffViewer(path, diff), tea.WithAltScreen()).Run(); err != nil {
			return Cancel, fmt.Errorf("showing diff: %w", err)
		}
	}
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

var menuChoices = []struct {
	label string
	res   Resolution
}{
	{"Apply (rewrite the generated block)", Apply},
	{"Show diff", ShowDiff},
	{"Skip (leave the file as it is)", Skip},
	{"Cancel", Cancel},
}

type menuModel struct {
	path     string
	stats    DiffStats
	cursor   int
	selected *Resolution
}

func newMenuModel(path string, stats DiffStats) menuModel {
	return menuModel{path: path, stats: stats}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuChoices)-1 {
			m.cursor++
		}
	case "a":
		return m.choose(Apply)
	case "d":
		return m.choose(ShowDiff)
	case "s":
		return m.choose(Skip)
	case "enter":
		return m.choose(menuChoices[m.cursor].res)
	}
	return m, nil
}

func (m menuModel) choose(r Resolution) (tea.Model, tea.Cmd) {
	m.selected = &r
	return m, tea.Quit
}

func (m menuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("⚠️  Generated block will change: ") + m.path + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("    %d line(s) added, %d removed", m.stats.Added, m.stats.Removed)) + "\n\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [a/d/s] Shortcut    [q] Cancel") + "\n\n")

	for i, c := range menuChoices {
		if i == m.cursor {
			b.WriteString("    " + selectedStyle.Render("> "+c.label) + "\n")
		} else {
			b.WriteString("      " + c.label + "\n")
		}
	}
	return b.String()
}

// diffViewer pages through a long diff. Scrolling keys go to the viewport.
type diffViewer struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewer(path, diff string) diffViewer {
	return diffViewer{path: path, diff: diff}
}

func (m diffViewer) Init() tea.Cmd {
	return nil
}

func (m diffViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Border and title take two rows each way.
		w, h := max(msg.Width-2, 1), max(msg.Height-4, 1)
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = w
			m.viewport.Height = h
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewer) View() string {
	if !m.ready {
		return "Loading diff..."
	}
	title := mutedStyle.Render(fmt.Sprintf(" %s  %3.f%%  [q] back to menu", m.path, m.viewport.ScrollPercent()*100))
	return title + "\n" + frameStyle.Render(m.viewport.View())
}
