// Package fsx provides the filesystem primitives the rest of the core
// relies on: atomic writes, idempotent parent-directory creation, and
// advisory exclusive locking around a path.
package fsx

import (
	"os"
	"path/filepath"

	"janus/internal/errs"
)

const dirPerms = 0o750

// EnsureParentDir creates the parent directory of path, and any missing
// ancestors, idempotently.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return &errs.StorageError{Op: "mkdir", Path: dir, Source: err}
	}

	return nil
}

// Exists reports whether path exists, distinguishing a genuine I/O error
// from a (false, nil) not-found result.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, &errs.StorageError{Op: "stat", Path: path, Source: err}
}
