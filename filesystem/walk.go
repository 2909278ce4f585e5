// Package filesystem walks project trees looking for files that carry
// generated blocks.
package filesystem

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultIgnoreDirs are skipped unless WalkOptions.IgnoreDirs is set.
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", ".git", ".svn", ".hg",
	"dist", "build", "bin", "tmp",
	".idea", ".vscode",
}

// WalkOptions configures Walk.
type WalkOptions struct {
	IgnoreDirs    []string // directory names to skip (default: DefaultIgnoreDirs)
	Include       []string // file name globs to visit; empty visits every file
	IncludeHidden bool     // visit dotfiles and dot-directories
	MaxSize       int64    // skip files larger than this many bytes; 0 means no limit
}

// Walk calls visit for every regular file under root that passes opts.
// Directories and symlinks are never passed to visit. Return
// filepath.SkipDir from visit to skip the rest of the file's directory.
func Walk(root string, opts WalkOptions, visit func(path string, d fs.DirEntry) error) error {
	ignore := opts.IgnoreDirs
	if ignore == nil {
		ignore = DefaultIgnoreDirs
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if path != root && !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && slices.Contains(ignore, name) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !matchesAny(name, opts.Include) {
			return nil
		}

		if opts.MaxSize > 0 {
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.Size() > opts.MaxSize {
				return nil
			}
		}

		return visit(path, d)
	})
}

func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
