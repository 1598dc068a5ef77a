// Package workspace manages scoped temporary directories for the archive
// pipeline. A Scratch directory is removed only when its owner calls
// Release.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scratch is a temporary directory owned by a single caller. Release must
// be invoked exactly once, typically via defer immediately after New
// succeeds.
type Scratch struct {
	Dir string
}

// New creates a fresh temporary directory under the default temp root.
func New(prefix string) (*Scratch, error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &Scratch{Dir: abs(dir)}, nil
}

// Path joins a relative path onto the scratch directory.
func (s *Scratch) Path(parts ...string) string {
	return filepath.Join(append([]string{s.Dir}, parts...)...)
}

// Release removes the scratch directory and everything under it. Safe to
// call on a nil receiver or after a failed New.
func (s *Scratch) Release() {
	if s == nil || s.Dir == "" {
		return
	}
	_ = os.RemoveAll(s.Dir)
}

func abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if absPath, err := filepath.Abs(p); err == nil {
		return absPath
	}
	return filepath.Clean(p)
}
