package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/quill/transcribe"
)

// Operation is a filesystem change that can be validated and executed.
//
// Validate checks whether the operation would succeed without executing it.
// force=true skips conflict checks (e.g., file already exists).
//
// Execute performs the operation. Call it only after Validate succeeds.
//
// Description returns a line for output, e.g. "Regenerate block in a.h (12 lines)".
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// Previewer is an Operation that can show what it would write.
type Previewer interface {
	Target() string
	Preview() (before, after []byte, err error)
}

// BlockOp replaces the generated block of an existing marked file.
//
// Validation behavior:
//   - Path must exist and be a regular file
//   - Content must not be nil (empty is OK and empties the block)
//   - In strict mode both markers must be present
//
// Execution behavior:
//   - Streams Content into the block through a transcribe.Editor
//   - The file is replaced atomically; on any failure it is left as it was
type BlockOp struct {
	Path       string
	ScratchDir string             // "" means the directory of Path
	Markers    transcribe.Markers // zero value means transcribe.DefaultMarkers
	Strict     bool
	Content    []byte
}

func (op *BlockOp) options() []transcribe.Option {
	m := op.Markers
	if m == (transcribe.Markers{}) {
		m = transcribe.DefaultMarkers
	}
	return []transcribe.Option{transcribe.WithMarkers(m), transcribe.WithStrict(op.Strict)}
}

func (op *BlockOp) Validate(ctx context.Context, force bool) error {
	info, err := os.Stat(op.Path)
	if err != nil {
		return fmt.Errorf("cannot regenerate %s: %w", op.Path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot regenerate %s: %w", op.Path, transcribe.ErrNotRegular)
	}
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	if _, _, err := op.Preview(); err != nil {
		return err
	}
	return nil
}

func (op *BlockOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return transcribe.Edit(op.Path, op.ScratchDir, func(e *transcribe.Editor) error {
		if len(op.Content) == 0 {
			return nil
		}
		_, err := e.Write(op.Content)
		return err
	}, op.options()...)
}

func (op *BlockOp) Description() string {
	return fmt.Sprintf("Regenerate block in %s (%d lines)", op.Path, countLines(op.Content))
}

func (op *BlockOp) Target() string {
	return op.Path
}

// Preview returns the current file and the file as Execute would leave it.
func (op *BlockOp) Preview() (before, after []byte, err error) {
	before, err = os.ReadFile(op.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", op.Path, err)
	}
	after, err = transcribe.Splice(before, op.Content, op.options()...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op.Path, err)
	}
	return before, after, nil
}

// WriteFileOp creates a new file with content.
//
// Validation behavior:
//   - The nearest existing ancestor of Path must be a directory; nothing is
//     created until Execute
//   - Checks for file conflicts unless force=true
//   - Allows empty content (zero bytes) but rejects nil content
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if err := creatable(filepath.Dir(op.Path)); err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(op.Path); err == nil {
			return fmt.Errorf("file already exists: %s", op.Path)
		}
	}

	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(op.Path), 0o755); err != nil {
		return err
	}
	mode := op.Mode
	if mode == 0 {
		mode = 0o644
	}
	return os.WriteFile(op.Path, op.Content, mode)
}

// creatable reports whether os.MkdirAll(dir) could succeed: the nearest
// existing ancestor must be a directory.
func creatable(dir string) error {
	for d := dir; ; d = filepath.Dir(d) {
		info, err := os.Stat(d)
		switch {
		case err == nil && info.IsDir():
			return nil
		case err == nil:
			return fmt.Errorf("cannot create directory %s: %s is not a directory", dir, d)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
		if parent := filepath.Dir(d); parent == d {
			return nil
		}
	}
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

func countLines(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	if b[len(b)-1] != '\n' {
		n++
	}
	return n
}
