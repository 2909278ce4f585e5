//go:build windows

package transcribe

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// plainScratch is the Windows fallback: rename cannot replace an open
// target there, so the original is removed before the scratch file moves in.
type plainScratch struct {
	*os.File
	target string
	closed bool
}

func newScratch(path, dir string) (scratchFile, error) {
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return nil, err
	}
	return &plainScratch{File: f, target: path}, nil
}

func (s *plainScratch) replace() error {
	if err := s.Sync(); err != nil {
		return err
	}
	s.closed = true
	if err := s.Close(); err != nil {
		return err
	}
	if err := os.Remove(s.target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(s.Name(), s.target)
}

func (s *plainScratch) discard() error {
	var closeErr error
	if !s.closed {
		s.closed = true
		closeErr = s.Close()
	}
	if err := os.Remove(s.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return closeErr
}
