package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FauxHeader is the canonical header line of a fauxness dataset.
const FauxHeader = "experiment_name,sample_id,fauxness,category_guess"

// TwoRowDataset is the reference dataset used across package tests.
var TwoRowDataset = []string{
	"e1,1,0.5,real",
	"e2,2,0.9,fake",
}

// WriteDataset writes header plus rows (one CSV line each) into dir/name and
// returns the full path.
func WriteDataset(t *testing.T, dir, name, header string, rows ...string) string {
	t.Helper()
	lines := append([]string{header}, rows...)
	return WriteRaw(t, dir, name, []byte(strings.Join(lines, "\n")+"\n"))
}

// WriteFauxDataset writes rows under the canonical header.
func WriteFauxDataset(t *testing.T, rows ...string) string {
	t.Helper()
	return WriteDataset(t, t.TempDir(), "data.faux", FauxHeader, rows...)
}

// WriteRaw writes arbitrary bytes into dir/name and returns the full path.
func WriteRaw(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}
