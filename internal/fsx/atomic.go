package fsx

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/natefinch/atomic"

	"janus/internal/errs"
	"janus/internal/warn"
)

const filePerms = 0o600

// WriteFileAtomic writes data to path via a temp file in the same
// directory, fsync, and rename. Rename is atomic on the same filesystem.
// If the rename fails because path.tmp and path live on different
// filesystems (EXDEV, e.g. an overlay mount or a bind-mounted .janus
// directory), it falls back to copy+unlink and warns on w.
func WriteFileAtomic(w warn.Sink, path string, data []byte) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	err := atomic.WriteFile(path, bytes.NewReader(data))
	if err == nil {
		return nil
	}

	if !errors.Is(err, syscall.EXDEV) {
		return &errs.StorageError{Op: "write", Path: path, Source: err}
	}

	if w != nil {
		w.Warnf("atomic rename crossed filesystems for %s, falling back to copy+unlink", path)
	}

	if fallbackErr := writeCrossDevice(path, data); fallbackErr != nil {
		return &errs.StorageError{Op: "write", Path: path, Source: fallbackErr}
	}

	return nil
}

func writeCrossDevice(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()

	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if err := tmp.Chmod(filePerms); err != nil {
		tmp.Close()

		return err
	}

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Cross-device rename still fails with EXDEV when the source and
		// destination are genuinely different filesystems (not just
		// different directories on the same one); copy the bytes in
		// directly as the last resort and accept the brief non-atomic
		// window.
		if !errors.Is(err, syscall.EXDEV) {
			return err
		}

		if err := os.WriteFile(path, data, filePerms); err != nil {
			return err
		}
	}

	return nil
}
