package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines tool arguments to the configured input directory.
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator rooted at directory.
func NewPathValidator(directory string) (*PathValidator, error) {
	if directory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	root, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	return &PathValidator{root: filepath.Clean(root)}, nil
}

// Root returns the absolute configured directory.
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve returns the absolute form of path. Relative paths are taken from
// the configured directory; an empty path resolves to the directory itself.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return v.root, nil
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	path = filepath.Clean(path)

	within, err := v.IsPathWithinDirectory(path)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}

	return path, nil
}

// IsPathWithinDirectory checks the cleaned path and, when it exists, its
// symlink target against the configured directory.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	cleanPath := filepath.Clean(absPath)

	realDir := v.root
	if resolved, err := filepath.EvalSymlinks(v.root); err == nil {
		realDir = resolved
	}

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to evaluate symlinks: %w", err)
	}

	pathOk := within(cleanPath, v.root) || within(cleanPath, realDir)
	realPathOk := within(realPath, v.root) || within(realPath, realDir)

	return pathOk && realPathOk, nil
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
