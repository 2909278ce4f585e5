package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// maxDiffLines caps the size of files the diff will compare.
const maxDiffLines = 20000

// maxEditCost bounds the Myers search. A changed region that needs more
// edits than this is reported as replaced wholesale.
const maxEditCost = 1024

// noNewline is appended to a last line that has no newline after it.
const noNewline = "\n\\ No newline at end of file"

// DiffOptions configures GenerateDiff. The zero value is usable.
type DiffOptions struct {
	// ContextLines is the number of unchanged lines around each change.
	// Default: 3
	ContextLines int

	// TabWidth is how many columns a tab expands to. Default: 4
	TabWidth int

	// Width truncates long lines. 0 detects the terminal width; a negative
	// value disables truncation.
	Width int

	// Plain disables styling, for logs and CI output.
	Plain bool
}

func (o *DiffOptions) withDefaults() DiffOptions {
	var out DiffOptions
	if o != nil {
		out = *o
	}
	if out.ContextLines <= 0 {
		out.ContextLines = 3
	}
	if out.TabWidth <= 0 {
		out.TabWidth = 4
	}
	if out.Width == 0 {
		out.Width = terminalWidth()
	}
	return out
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

type editKind int

const (
	editEqual editKind = iota
	editInsert
	editDelete
)

// edit is one line of an edit script. oldPos and newPos count the lines of
// each side consumed before this one.
type edit struct {
	kind   editKind
	text   string
	oldPos int
	newPos int
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	edits              []edit
}

// DiffStats counts changed lines.
type DiffStats struct {
	Added   int
	Removed int
}

// DiffGenerator computes unified line diffs. It keeps its working buffer
// between calls, so reuse one generator for many diffs.
type DiffGenerator struct {
	v []int
}

// NewDiffGenerator returns a reusable generator.
func NewDiffGenerator() *DiffGenerator {
	return &DiffGenerator{}
}

// GenerateDiff is a one-off DiffGenerator.GenerateDiff.
func GenerateDiff(oldPath, newPath string, old, newer []byte, opts *DiffOptions) string {
	return NewDiffGenerator().GenerateDiff(oldPath, newPath, old, newer, opts)
}

// GenerateDiff returns a unified diff from old to newer, or "" when they
// are equal.
func (g *DiffGenerator) GenerateDiff(oldPath, newPath string, old, newer []byte, opts *DiffOptions) string {
	o := opts.withDefaults()

	if bytes.Equal(old, newer) {
		return ""
	}
	if isBinary(old) || isBinary(newer) {
		return "Binary files differ\n"
	}

	a, b := splitLines(string(old)), splitLines(string(newer))
	if len(a) > maxDiffLines || len(b) > maxDiffLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	hunks := groupHunks(g.script(a, b), o.ContextLines)

	var buf strings.Builder
	buf.WriteString(o.style(headerStyle, "--- "+oldPath) + "\n")
	buf.WriteString(o.style(headerStyle, "+++ "+newPath) + "\n")
	for _, h := range hunks {
		writeHunk(&buf, h, o)
	}
	return buf.String()
}

// Stats counts added and removed lines between old and newer. It runs the
// forward search only, so memory stays linear in the input.
func (g *DiffGenerator) Stats(old, newer []byte) DiffStats {
	a, b := splitLines(string(old)), splitLines(string(newer))
	prefix, suffix := commonEnds(a, b)
	a, b = a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]

	d := g.search(a, b, nil)
	if d < 0 {
		return DiffStats{Added: len(b), Removed: len(a)}
	}
	// d edits, and inserts outnumber deletes by len(b)-len(a).
	return DiffStats{
		Added:   (d + len(b) - len(a)) / 2,
		Removed: (d - len(b) + len(a)) / 2,
	}
}

// commonEnds counts the lines a and b share at the start and at the end.
func commonEnds(a, b []string) (prefix, suffix int) {
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	return prefix, suffix
}

// script returns the shortest edit script from a to b. Common leading and
// trailing lines are matched directly; Myers' O(ND) search runs on the rest.
func (g *DiffGenerator) script(a, b []string) []edit {
	prefix, suffix := commonEnds(a, b)

	out := make([]edit, 0, len(a)+len(b))
	for i := 0; i < prefix; i++ {
		out = append(out, edit{kind: editEqual, text: a[i], oldPos: i, newPos: i})
	}

	for _, e := range g.myers(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]) {
		e.oldPos += prefix
		e.newPos += prefix
		out = append(out, e)
	}

	for i := suffix; i > 0; i-- {
		oi, ni := len(a)-i, len(b)-i
		out = append(out, edit{kind: editEqual, text: a[oi], oldPos: oi, newPos: ni})
	}
	return out
}

// frontier is the furthest x reached on diagonals lo..lo+len(x)-1 at the
// start of one round of the search.
type frontier struct {
	lo int
	x  []int
}

func (f frontier) at(k int) int {
	return f.x[k-f.lo]
}

// myers implements "An O(ND) Difference Algorithm and Its Variations"
// (Myers, 1986) with per-round snapshots for backtracking. Past
// maxEditCost rounds it gives up and replaces a with b.
func (g *DiffGenerator) myers(a, b []string) []edit {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	var trace []frontier
	d := g.search(a, b, func(d, off int, v []int) {
		snap := make([]int, 2*d+3)
		copy(snap, v[off-d-1:off+d+2])
		trace = append(trace, frontier{lo: -d - 1, x: snap})
	})
	if d < 0 {
		return replace(a, b)
	}
	return backtrack(trace, a, b)
}

// search runs the forward pass and returns the length of the shortest edit
// script, or -1 when it is longer than maxEditCost. round, when not nil,
// sees the frontier before each round d; diagonal k is at v[off+k].
func (g *DiffGenerator) search(a, b []string, round func(d, off int, v []int)) int {
	n, m := len(a), len(b)
	limit := min(n+m, maxEditCost)
	off := limit + 1
	size := 2*limit + 3
	if cap(g.v) < size {
		g.v = make([]int, size)
	}
	v := g.v[:size]
	clear(v)

	for d := 0; d <= limit; d++ {
		if round != nil {
			round(d, off, v)
		}

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[off+k] = x

			if x >= n && y >= m {
				return d
			}
		}
	}
	return -1
}

// replace deletes every line of a, then inserts every line of b.
func replace(a, b []string) []edit {
	out := make([]edit, 0, len(a)+len(b))
	for i, s := range a {
		out = append(out, edit{kind: editDelete, text: s, oldPos: i})
	}
	for j, s := range b {
		out = append(out, edit{kind: editInsert, text: s, oldPos: len(a), newPos: j})
	}
	return out
}

func backtrack(trace []frontier, a, b []string) []edit {
	x, y := len(a), len(b)
	var rev []edit

	for d := len(trace) - 1; d >= 0; d-- {
		f := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && f.at(k-1) < f.at(k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := f.at(prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, edit{kind: editEqual, text: a[x], oldPos: x, newPos: y})
		}

		if d == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, edit{kind: editInsert, text: b[y], oldPos: x, newPos: y})
		} else {
			x--
			rev = append(rev, edit{kind: editDelete, text: a[x], oldPos: x, newPos: y})
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// groupHunks gathers changes that lie within 2*context lines of each other
// into one hunk, padded with context on both sides.
func groupHunks(script []edit, context int) []hunk {
	var hunks []hunk

	i := 0
	for i < len(script) {
		if script[i].kind == editEqual {
			i++
			continue
		}

		start := max(0, i-context)
		end := i
		for j := i; j < len(script); j++ {
			if script[j].kind != editEqual {
				end = j
				continue
			}
			if j-end > 2*context {
				break
			}
		}
		stop := min(len(script), end+context+1)

		hunks = append(hunks, newHunk(script[start:stop]))
		i = stop
	}
	return hunks
}

func newHunk(edits []edit) hunk {
	h := hunk{edits: edits}
	for _, e := range edits {
		if e.kind != editInsert {
			h.oldCount++
		}
		if e.kind != editDelete {
			h.newCount++
		}
	}

	first := edits[0]
	h.oldStart, h.newStart = first.oldPos, first.newPos
	if h.oldCount > 0 {
		h.oldStart++
	}
	if h.newCount > 0 {
		h.newStart++
	}
	return h
}

func writeHunk(buf *strings.Builder, h hunk, o DiffOptions) {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
	buf.WriteString(o.style(hunkStyle, header) + "\n")

	for _, e := range h.edits {
		text, noEOL := strings.CutSuffix(e.text, noNewline)
		text = truncate(expandTabs(text, o.TabWidth), o.Width-2)
		switch e.kind {
		case editInsert:
			buf.WriteString(o.style(addedStyle, "+"+text))
		case editDelete:
			buf.WriteString(o.style(removedStyle, "-"+text))
		default:
			buf.WriteString(" " + text)
		}
		buf.WriteByte('\n')
		if noEOL {
			buf.WriteString(noNewline[1:] + "\n")
		}
	}
}

func (o DiffOptions) style(s lipgloss.Style, text string) string {
	if o.Plain {
		return text
	}
	return s.Render(text)
}

// isBinary looks for a NUL byte in the first 8 KiB.
func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 8192)], 0) >= 0
}

// splitLines splits on newlines. A last line with no newline after it
// carries noNewline, so it never matches the same text with one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	lines[last] += noNewline
	return lines
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := width - col%width
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
