package transcribe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Transcriber is one in-flight rewrite of a single file.
//
// The original is read through ReadLine while new content goes to a scratch
// file through WriteLine. Commit swaps the scratch file into place; Cleanup
// throws it away. After either call the session is inert and further calls
// to Commit or Cleanup do nothing.
type Transcriber struct {
	path     string
	tempPath string

	file   *os.File
	reader *bufio.Reader

	scratch scratchFile
	writer  *bufio.Writer
}

// Begin opens path for reading and creates a scratch file in scratchDir.
// An empty scratchDir means the directory holding path. scratchDir must be on
// the same filesystem as path for Commit to be a rename.
//
// On failure nothing is left behind: the reader is closed and any partially
// created scratch file is removed.
func Begin(path, scratchDir string) (*Transcriber, error) {
	if scratchDir == "" {
		scratchDir = filepath.Dir(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	scratch, err := newScratch(path, scratchDir)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("creating scratch file for %s in %s: %w", path, scratchDir, err)
	}

	return &Transcriber{
		path:     path,
		tempPath: scratch.Name(),
		file:     file,
		reader:   bufio.NewReader(file),
		scratch:  scratch,
		writer:   bufio.NewWriter(scratch),
	}, nil
}

// Path returns the file being rewritten.
func (t *Transcriber) Path() string {
	return t.path
}

// TempPath returns the scratch file path, or "" once the session is done.
func (t *Transcriber) TempPath() string {
	return t.tempPath
}

// Active reports whether the session still holds its scratch file.
func (t *Transcriber) Active() bool {
	return t.scratch != nil
}

// WriteLine appends text verbatim to the scratch file. No newline is added.
func (t *Transcriber) WriteLine(text string) error {
	if t.writer == nil {
		return ErrClosed
	}
	if _, err := t.writer.WriteString(text); err != nil {
		return fmt.Errorf("writing %s: %w", t.tempPath, err)
	}
	return nil
}

// ReadLine returns the next line of the original including its line
// terminator. ok is false once the original is exhausted; that is not an
// error.
func (t *Transcriber) ReadLine() (line string, ok bool, err error) {
	if t.reader == nil {
		return "", false, ErrClosed
	}
	line, ok, err = readLine(t.reader)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", t.path, err)
	}
	return line, ok, nil
}

// Commit closes the original, flushes and closes the scratch file, and moves
// the scratch file to the original path.
//
// If the final swap fails the scratch file stays where it is and the caller
// should run Cleanup.
func (t *Transcriber) Commit() error {
	if t.scratch == nil {
		return nil
	}

	if t.file != nil {
		if err := t.file.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", t.path, err)
		}
		t.file, t.reader = nil, nil
	}

	if t.writer != nil {
		if err := t.writer.Flush(); err != nil {
			return fmt.Errorf("flushing %s: %w", t.tempPath, err)
		}
		t.writer = nil
	}

	if err := t.scratch.replace(); err != nil {
		return fmt.Errorf("replacing %s with %s: %w", t.path, t.tempPath, err)
	}

	t.scratch = nil
	t.tempPath = ""
	return nil
}

// Cleanup abandons the session. It closes whatever is still open and removes
// the scratch file. The original is never touched. Calling it after Commit,
// or twice, does nothing.
func (t *Transcriber) Cleanup() error {
	var errs []error

	if t.file != nil {
		if err := t.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, fmt.Errorf("closing %s: %w", t.path, err))
		}
		t.file, t.reader = nil, nil
	}

	t.writer = nil
	if t.scratch != nil {
		if err := t.scratch.discard(); err != nil {
			errs = append(errs, fmt.Errorf("removing scratch file %s: %w", t.tempPath, err))
		}
		t.scratch = nil
	}
	t.tempPath = ""

	return errors.Join(errs...)
}

// readLine reads up to and including the next newline. A final line without
// a newline is returned as is.
func readLine(r *bufio.Reader) (string, bool, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF {
		return line, line != "", nil
	}
	if err != nil {
		return "", false, err
	}
	return line, true, nil
}
