package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "proposalradar/internal/errors"
)

// countingWriter counts bytes passed through to w
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeAtomic streams write into a temp file next to path and renames it over
// path once synced. The destination directory must already exist. On failure
// the temp file is removed and any previous file at path is untouched.
func writeAtomic(path string, write func(io.Writer) error) (written int64, err error) {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return 0, apperrors.NewSinkUnwritableError(path, err)
	}
	if !info.IsDir() {
		return 0, apperrors.NewSinkUnwritableError(path, fmt.Errorf("%s is not a directory", dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, apperrors.NewSinkUnwritableError(path, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	cw := &countingWriter{w: tmp}
	if err = write(cw); err != nil {
		return 0, apperrors.NewSinkUnwritableError(path, err)
	}
	if err = tmp.Sync(); err != nil {
		return 0, apperrors.NewSinkUnwritableError(path, err)
	}
	if err = tmp.Close(); err != nil {
		return 0, apperrors.NewSinkUnwritableError(path, err)
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return 0, apperrors.NewSinkUnwritableError(path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return 0, apperrors.NewSinkUnwritableError(path, err)
	}

	return cw.n, nil
}
