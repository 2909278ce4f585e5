package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Find looks for DefaultFile in start and then in each parent directory, so
// quill can run from anywhere inside a project.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(dir, DefaultFile)
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			return path, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("checking %s: %w", path, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found in %s or any parent directory. Run 'quill init' to create one", DefaultFile, start)
		}
		dir = parent
	}
}
