package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name:      "existing directory",
			setupFunc: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name:          "non-existent directory",
			setupFunc:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "a.faux")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "is not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(nil)
			err := v.ValidateInputDirectory(tt.setupFunc(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_FindDatasets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.faux", "a.faux", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.faux"), 0755))

	v := NewFileValidator(nil)

	files, err := v.FindDatasets(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.faux"), filepath.Join(dir, "b.faux")}, files)

	files, err = v.FindDatasets(dir, "*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, files)

	files, err = v.FindDatasets(dir, "*.csv")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = v.FindDatasets(dir, "[")
	assert.Error(t, err)

	_, err = v.FindDatasets(filepath.Join(dir, "missing"), "")
	assert.Error(t, err)
}

func TestFileValidator_ResolveWithin(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name    string
		root    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "no root passes through", root: "", input: "../x.faux", want: "../x.faux"},
		{name: "relative file", root: root, input: "a.faux", want: filepath.Join(root, "a.faux")},
		{name: "nested file", root: root, input: "sub/a.faux", want: filepath.Join(root, "sub", "a.faux")},
		{name: "parent escape", root: root, input: "../a.faux", wantErr: true},
		{name: "hidden escape", root: root, input: "sub/../../a.faux", wantErr: true},
		{name: "absolute path", root: root, input: "/etc/passwd", wantErr: true},
		{name: "dotdot prefixed name stays inside", root: root, input: "..a.faux", want: filepath.Join(root, "..a.faux")},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ResolveWithin(tt.root, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
