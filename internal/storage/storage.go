// Package storage reads whole input files and publishes outputs atomically.
package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

var ErrInputTooLarge = errors.New("input file too large")

// ReadAll loads the whole file into memory, refusing files above limit bytes.
// A zero limit disables the check.
func ReadAll(path string, limit uint64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "could not collect file %s stats", path)
	}

	size := info.Size()
	if limit > 0 && size > 0 && uint64(size) > limit {
		return nil, errors.Wrapf(ErrInputTooLarge, "%s is %d bytes, limit is %d", path, size, limit)
	}

	var r io.Reader = f
	if limit > 0 {
		// files that lie about their size (pipes, /proc) are still bounded
		r = io.LimitReader(f, int64(limit)+1)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}

	if limit > 0 && uint64(len(b)) > limit {
		return nil, errors.Wrapf(ErrInputTooLarge, "%s exceeds %d bytes", path, limit)
	}

	return b, nil
}

// WriteAtomic writes data next to path under a unique temporary name and
// renames it over path once everything is on disk. On failure path is
// left untouched.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpName := filepath.Join(dir, "."+filepath.Base(path)+"."+ulid.Make().String()+".tmp")

	tmpF, err := os.OpenFile(tmpName, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0666)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", tmpName)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tmpF.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err := tmpF.Write(data)
	if err != nil {
		return errors.Wrapf(err, "could not write into %s", tmpName)
	}

	if n != len(data) {
		return errors.Wrapf(io.ErrShortWrite, "wrote %d of %d bytes into %s", n, len(data), tmpName)
	}

	if err := tmpF.Sync(); err != nil {
		return errors.Wrapf(err, "could not sync %s", tmpName)
	}

	if err := tmpF.Close(); err != nil {
		return errors.Wrapf(err, "could not close %s", tmpName)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return errors.Wrapf(err, "could not swap %s for %s", path, tmpName)
	}

	committed = true
	return nil
}
