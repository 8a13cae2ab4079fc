// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/crudgen/internal/ports/secondary"
)

// ProjectFiles implements secondary.ProjectFiles rooted at a project directory.
type ProjectFiles struct {
	root string
}

// NewProjectFiles creates a project adapter. An empty root means the
// current working directory.
func NewProjectFiles(root string) (*ProjectFiles, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("project root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	return &ProjectFiles{root: abs}, nil
}

// Read returns a file's content.
func (p *ProjectFiles) Read(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(p.abs(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

// Write creates parent directories and overwrites the file.
func (p *ProjectFiles) Write(ctx context.Context, path, content string) error {
	full := p.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a file exists.
func (p *ProjectFiles) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(p.abs(path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
	return true, nil
}

func (p *ProjectFiles) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, filepath.FromSlash(path))
}

// Ensure ProjectFiles implements the interface
var _ secondary.ProjectFiles = (*ProjectFiles)(nil)
