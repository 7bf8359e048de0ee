package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "proposalradar/internal/errors"
)

func TestFileValidator_ValidateSource(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantErr   error
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "proposals.csv")
				require.NoError(t, os.WriteFile(file, []byte("Party\n"), 0644))
				return file
			},
		},
		{
			name: "file without extension is read as csv",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "proposals")
				require.NoError(t, os.WriteFile(file, []byte("Party\n"), 0644))
				return file
			},
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			wantErr: apperrors.ErrSourceNotFound,
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: apperrors.ErrSourceUnreadable,
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "~$proposals.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("lock"), 0644))
				return file
			},
			wantErr: apperrors.ErrSourceUnreadable,
		},
		{
			name: "legacy xls",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "proposals.XLS")
				require.NoError(t, os.WriteFile(file, []byte("old"), 0644))
				return file
			},
			wantErr: apperrors.ErrSourceUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(nil)
			err := v.ValidateSource(tt.setupFunc(t))

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateSink(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantErr   bool
	}{
		{
			name: "new file in existing directory",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "proposals.json")
			},
		},
		{
			name: "existing file is replaceable",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "proposals.json")
				require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
				return file
			},
		},
		{
			name: "missing directory is not created",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "public", "data", "proposals.json")
			},
			wantErr: true,
		},
		{
			name: "path is a directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: true,
		},
		{
			name: "parent is a file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return filepath.Join(file, "proposals.json")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setupFunc(t)
			v := NewFileValidator(nil)

			err := v.ValidateSink(path)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrSinkUnwritable))
				return
			}
			require.NoError(t, err)

			entries, readErr := os.ReadDir(filepath.Dir(path))
			require.NoError(t, readErr)
			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".write_test_", "scratch file left behind")
			}
		})
	}
}

func TestFileValidator_ValidateDistinct(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "proposals.csv")

	tests := []struct {
		name    string
		outputs []string
		wantErr bool
	}{
		{
			name:    "distinct outputs",
			outputs: []string{filepath.Join(dir, "proposals.json"), filepath.Join(dir, "parties.csv")},
		},
		{
			name:    "unset summary",
			outputs: []string{filepath.Join(dir, "proposals.json"), ""},
		},
		{
			name:    "output is the source",
			outputs: []string{filepath.Join(dir, "proposals.json"), filepath.Join(dir, ".", "proposals.csv")},
			wantErr: true,
		},
		{
			name:    "outputs share a path",
			outputs: []string{filepath.Join(dir, "out.json"), filepath.Join(dir, "sub", "..", "out.json")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFileValidator(nil).ValidateDistinct(source, tt.outputs...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrSinkUnwritable))
				return
			}
			assert.NoError(t, err)
		})
	}
}
