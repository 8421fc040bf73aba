package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDatasetPattern matches dataset files when scanning a directory.
const DefaultDatasetPattern = "*.faux"

// FileValidator performs the filesystem checks that surround a validation
// pass: locating candidate files and confining request paths.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory checks that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// FindDatasets returns the regular files in dir matching pattern, sorted by
// name. An empty pattern means DefaultDatasetPattern.
func (v *FileValidator) FindDatasets(dir, pattern string) ([]string, error) {
	if err := v.ValidateInputDirectory(dir); err != nil {
		return nil, err
	}
	if pattern == "" {
		pattern = DefaultDatasetPattern
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err == nil && !info.IsDir() {
			files = append(files, match)
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		v.logger.Warn("No files matching pattern found",
			slog.String("directory", dir),
			slog.String("pattern", pattern))
	} else {
		v.logger.Debug("Datasets found",
			slog.String("directory", dir),
			slog.Int("files_found", len(files)))
	}
	return files, nil
}

// ResolveWithin joins name onto root and rejects results that escape root.
// With an empty root, name is returned unchanged.
func (v *FileValidator) ResolveWithin(root, name string) (string, error) {
	if root == "" {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("path %s must be relative to the data directory", name)
	}

	joined := filepath.Join(root, name)
	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		v.logger.Warn("Rejected path outside data directory",
			slog.String("root", root),
			slog.String("path", name))
		return "", fmt.Errorf("path %s escapes the data directory", name)
	}
	return joined, nil
}
