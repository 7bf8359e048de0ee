package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "proposalradar/internal/errors"
)

// FileValidator runs the preflight checks on the source and output paths
// of a run, before any data is read or written
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With("component", "file_validator"),
	}
}

// ValidateSource checks that path is an existing, readable file the loader
// can decode
func (v *FileValidator) ValidateSource(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Error("Source file does not exist",
			slog.String("file", path))
		return apperrors.NewSourceNotFoundError(path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat source file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewSourceUnreadableError(path, err)
	}
	if info.IsDir() {
		v.logger.Error("Source path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewSourceUnreadableError(path, fmt.Errorf("%s is a directory, not a file", path))
	}

	if err := v.validateSourceName(path); err != nil {
		return err
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Source file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewSourceUnreadableError(path, err)
	}
	file.Close()

	v.logger.Debug("Source file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// validateSourceName rejects Excel lock files and the legacy binary format
func (v *FileValidator) validateSourceName(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return apperrors.NewSourceUnreadableError(path, fmt.Errorf("%s is a temporary Excel file", base))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xls" {
		v.logger.Error("Legacy Excel format is not supported",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewSourceUnreadableError(path, fmt.Errorf("legacy %s workbooks are not supported, save as .xlsx or .csv", ext))
	}

	return nil
}

// ValidateSink checks that the directory of path exists and accepts new
// files, and that path itself is not a directory. Missing directories are
// not created.
func (v *FileValidator) ValidateSink(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory",
			slog.String("path", path))
		return apperrors.NewSinkUnwritableError(path, fmt.Errorf("%s is a directory", path))
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		v.logger.Error("Output directory does not exist",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewSinkUnwritableError(path, err)
	}
	if !info.IsDir() {
		v.logger.Error("Output parent is not a directory",
			slog.String("path", dir))
		return apperrors.NewSinkUnwritableError(path, fmt.Errorf("%s is not a directory", dir))
	}

	// Verify it's writable by creating a scratch file
	scratch, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewSinkUnwritableError(path, err)
	}
	scratch.Close()
	os.Remove(scratch.Name())

	v.logger.Debug("Output path validated",
		slog.String("file", path))
	return nil
}

// ValidateDistinct refuses outputs that overwrite the source or each other
func (v *FileValidator) ValidateDistinct(source string, outputs ...string) error {
	src, err := filepath.Abs(source)
	if err != nil {
		return apperrors.NewSourceUnreadableError(source, err)
	}
	seen := make(map[string]string, len(outputs))
	for _, out := range outputs {
		if out == "" {
			continue
		}
		abs, err := filepath.Abs(out)
		if err != nil {
			return apperrors.NewSinkUnwritableError(out, err)
		}
		if abs == src {
			v.logger.Error("Output would overwrite the source",
				slog.String("file", out))
			return apperrors.NewSinkUnwritableError(out, errors.New("output path is the source file"))
		}
		if prev, ok := seen[abs]; ok {
			v.logger.Error("Two outputs share one path",
				slog.String("file", out),
				slog.String("other", prev))
			return apperrors.NewSinkUnwritableError(out, fmt.Errorf("output path is also used for %s", prev))
		}
		seen[abs] = out
	}
	return nil
}
