//go:build !windows

package transcribe

import (
	"errors"
	"io/fs"

	"github.com/google/renameio/v2"
)

// pendingScratch stages content in a renameio pending file so the final swap
// is a single rename over the existing target.
type pendingScratch struct {
	*renameio.PendingFile
}

func newScratch(path, dir string) (scratchFile, error) {
	f, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(dir),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return nil, err
	}
	return &pendingScratch{PendingFile: f}, nil
}

func (s *pendingScratch) replace() error {
	return s.CloseAtomicallyReplace()
}

func (s *pendingScratch) discard() error {
	if err := s.Cleanup(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
