package transcribe

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Markers are the literal lines that delimit a generated block. A line
// matches a marker when it equals the marker after surrounding whitespace is
// trimmed.
type Markers struct {
	Start string `mapstructure:"start" yaml:"start"`
	End   string `mapstructure:"end" yaml:"end"`
}

// DefaultMarkers are the markers used when none are configured.
var DefaultMarkers = Markers{
	Start: "// GENERATED PART STARTS HERE",
	End:   "// GENERATED PART ENDS HERE",
}

// Validate rejects blank markers.
func (m Markers) Validate() error {
	if strings.TrimSpace(m.Start) == "" || strings.TrimSpace(m.End) == "" {
		return ErrInvalidMarkers
	}
	return nil
}

func (m Markers) trimmed() Markers {
	return Markers{Start: strings.TrimSpace(m.Start), End: strings.TrimSpace(m.End)}
}

// State is the position of an Editor in its lifecycle.
type State int

const (
	StateOpened State = iota
	StatePreambleCopied
	StateClosing
	StateCommitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateOpened:
		return "opened"
	case StatePreambleCopied:
		return "preamble copied"
	case StateClosing:
		return "closing"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures an Editor or Splice.
type Option func(*editorConfig)

type editorConfig struct {
	markers Markers
	strict  bool
}

// WithMarkers replaces DefaultMarkers.
func WithMarkers(m Markers) Option {
	return func(c *editorConfig) {
		c.markers = m
	}
}

// WithStrict makes a missing start or end marker an error instead of a
// silent partial copy.
func WithStrict(strict bool) Option {
	return func(c *editorConfig) {
		c.strict = strict
	}
}

func newEditorConfig(opts []Option) (editorConfig, error) {
	cfg := editorConfig{markers: DefaultMarkers}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.markers.Validate(); err != nil {
		return cfg, err
	}
	cfg.markers = cfg.markers.trimmed()
	return cfg, nil
}

// Editor rewrites only the generated block of a marked file. The preamble
// through the start marker and the tail from the end marker on are copied
// verbatim; everything written in between replaces the old block.
type Editor struct {
	t          *Transcriber
	cfg        editorConfig
	state      State
	foundStart bool
}

// Open begins a session on path and copies the preamble, including the start
// marker line, into the scratch file.
//
// Without a start marker the whole file is copied and, in strict mode, the
// session is cleaned up and ErrStartMarkerNotFound returned.
func Open(path, scratchDir string, opts ...Option) (*Editor, error) {
	cfg, err := newEditorConfig(opts)
	if err != nil {
		return nil, err
	}

	t, err := Begin(path, scratchDir)
	if err != nil {
		return nil, err
	}

	e := &Editor{t: t, cfg: cfg, state: StateOpened}

	found, err := copyPreamble(t, t, cfg.markers.Start)
	if err != nil {
		e.abort()
		return nil, err
	}
	if !found && cfg.strict {
		e.abort()
		return nil, fmt.Errorf("%w: %q in %s", ErrStartMarkerNotFound, cfg.markers.Start, path)
	}

	e.foundStart = found
	e.state = StatePreambleCopied
	return e, nil
}

// Path returns the file being edited.
func (e *Editor) Path() string {
	return e.t.Path()
}

// TempPath returns the scratch file path, or "" once the editor is done.
func (e *Editor) TempPath() string {
	return e.t.TempPath()
}

// State returns the editor's lifecycle state.
func (e *Editor) State() State {
	return e.state
}

// FoundStart reports whether Open reached a start marker.
func (e *Editor) FoundStart() bool {
	return e.foundStart
}

// Markers returns the markers in use.
func (e *Editor) Markers() Markers {
	return e.cfg.markers
}

// WriteLine appends text verbatim to the generated block.
func (e *Editor) WriteLine(text string) error {
	if e.state != StatePreambleCopied {
		return fmt.Errorf("write while %s: %w", e.state, ErrClosed)
	}
	return e.t.WriteLine(text)
}

// Write implements io.Writer so templates can render straight into the block.
func (e *Editor) Write(p []byte) (int, error) {
	if err := e.WriteLine(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close skips the old block up to the end marker, copies the end marker line
// and the rest of the original, and commits.
//
// Without an end marker the tail is dropped and, in strict mode, the session
// is cleaned up and ErrEndMarkerNotFound returned with the original intact.
// Closing a committed or aborted editor does nothing.
func (e *Editor) Close() error {
	if e.state == StateCommitted || e.state == StateAborted {
		return nil
	}

	e.state = StateClosing
	found, err := copyTail(e.t, e.t, e.cfg.markers.End)
	if err != nil {
		return err
	}
	if !found && e.cfg.strict {
		e.abort()
		return fmt.Errorf("%w: %q in %s", ErrEndMarkerNotFound, e.cfg.markers.End, e.t.Path())
	}

	if err := e.t.Commit(); err != nil {
		return err
	}
	e.state = StateCommitted
	return nil
}

// Cleanup abandons the edit and removes the scratch file. The original is
// left untouched. It does nothing after Close has committed.
func (e *Editor) Cleanup() error {
	if e.state == StateCommitted {
		return nil
	}
	e.state = StateAborted
	return e.t.Cleanup()
}

func (e *Editor) abort() {
	e.state = StateAborted
	_ = e.t.Cleanup()
}

type lineReader interface {
	ReadLine() (string, bool, error)
}

type lineWriter interface {
	WriteLine(string) error
}

// copyPreamble copies lines through the first one matching start.
func copyPreamble(r lineReader, w lineWriter, start string) (bool, error) {
	for {
		line, ok, err := r.ReadLine()
		if err != nil || !ok {
			return false, err
		}
		if err := w.WriteLine(line); err != nil {
			return false, err
		}
		if strings.TrimSpace(line) == start {
			return true, nil
		}
	}
}

// copyTail drops lines until one matches end, then copies that line and
// everything after it.
func copyTail(r lineReader, w lineWriter, end string) (bool, error) {
	found := false
	for {
		line, ok, err := r.ReadLine()
		if err != nil || !ok {
			return found, err
		}
		if !found {
			if strings.TrimSpace(line) != end {
				continue
			}
			found = true
		}
		if err := w.WriteLine(line); err != nil {
			return found, err
		}
	}
}

// Edit opens path, lets fill write the generated block, and closes the
// editor. If fill returns an error or panics, or Close fails, the edit is
// cleaned up and the original left as it was.
func Edit(path, scratchDir string, fill func(*Editor) error, opts ...Option) (err error) {
	e, err := Open(path, scratchDir, opts...)
	if err != nil {
		return err
	}

	defer func() {
		if e.State() != StateCommitted {
			if cerr := e.Cleanup(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	if err := fill(e); err != nil {
		return err
	}
	return e.Close()
}

// Splice returns what an Editor would produce for original with body as the
// new generated block, without touching the filesystem.
func Splice(original, body []byte, opts ...Option) ([]byte, error) {
	cfg, err := newEditorConfig(opts)
	if err != nil {
		return nil, err
	}

	src := &bufferReader{r: bufio.NewReader(bytes.NewReader(original))}
	out := &bufferWriter{}
	out.buf.Grow(len(original) + len(body))

	found, err := copyPreamble(src, out, cfg.markers.Start)
	if err != nil {
		return nil, err
	}
	if !found && cfg.strict {
		return nil, fmt.Errorf("%w: %q", ErrStartMarkerNotFound, cfg.markers.Start)
	}

	out.buf.Write(body)

	found, err = copyTail(src, out, cfg.markers.End)
	if err != nil {
		return nil, err
	}
	if !found && cfg.strict {
		return nil, fmt.Errorf("%w: %q", ErrEndMarkerNotFound, cfg.markers.End)
	}

	return out.buf.Bytes(), nil
}

type bufferReader struct {
	r *bufio.Reader
}

func (b *bufferReader) ReadLine() (string, bool, error) {
	return readLine(b.r)
}

type bufferWriter struct {
	buf bytes.Buffer
}

func (b *bufferWriter) WriteLine(text string) error {
	b.buf.WriteString(text)
	return nil
}
