package system

import (
	"os"
	"path/filepath"

	"github.com/gravitational/hrmtest/lib/defaults"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// EnsureDir creates dir with all missing parents.
// It is not an error if dir already exists
func EnsureDir(dir string) error {
	err := os.MkdirAll(dir, defaults.SharedDirMask)
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	return nil
}

// WriteFile writes data to path atomically
// using SharedReadWriteMask as permissions.
// The parent directory is created if missing
func WriteFile(path string, data []byte) error {
	return WriteFileWithPerms(path, data, defaults.SharedReadWriteMask)
}

// WriteFileWithPerms writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written file.
// If the write fails, an existing file at path is preserved
func WriteFileWithPerms(path string, data []byte, perm os.FileMode) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return trace.Wrap(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return trace.ConvertSystemError(err)
	}

	cleanup := func() {
		err := os.Remove(tmp.Name())
		if err != nil {
			log.Warnf("Failed to remove %v: %v.", tmp.Name(), err)
		}
	}

	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		cleanup()
		return trace.ConvertSystemError(err)
	}
	if err = tmp.Close(); err != nil {
		cleanup()
		return trace.ConvertSystemError(err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		cleanup()
		return trace.ConvertSystemError(err)
	}
	err = os.Rename(tmp.Name(), path)
	if err != nil {
		cleanup()
		return trace.ConvertSystemError(err)
	}
	return nil
}
