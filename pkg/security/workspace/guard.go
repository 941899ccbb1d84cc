// Package workspace keeps file operations inside a designated root
// directory. Extension unpacking uses it so that archive entries such as
// "../../.bashrc" or "/etc/passwd" cannot escape the extraction directory.
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Guard enforces a root boundary on file paths.
type Guard struct {
	workspaceDir string // Absolute, symlink-evaluated root
}

// NewGuard creates a guard for an existing directory.
// The path is made absolute, cleaned and its symlinks evaluated.
func NewGuard(workspaceDir string) (*Guard, error) {
	if workspaceDir == "" {
		return nil, fmt.Errorf("workspace directory cannot be empty")
	}

	absPath, err := filepath.Abs(workspaceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace directory: %w", err)
	}

	// Evaluate symlinks in the root itself (macOS: /var -> /private/var)
	evalPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate workspace directory symlinks: %w", err)
	}

	return &Guard{workspaceDir: evalPath}, nil
}

// ValidatePath checks that a path, relative to the root or absolute,
// resolves inside the root.
func (g *Guard) ValidatePath(path string) error {
	_, err := g.ResolvePath(path)
	return err
}

// ResolvePath returns the absolute location of path inside the root.
// Relative paths are joined to the root. It fails for empty paths and for
// anything that lands outside the root after cleaning and symlink
// evaluation.
func (g *Guard) ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(filepath.FromSlash(path))

	var absPath string
	if filepath.IsAbs(cleanPath) {
		absPath = cleanPath
	} else {
		absPath = filepath.Join(g.workspaceDir, cleanPath)
	}

	if !g.IsWithinWorkspace(absPath) {
		return "", fmt.Errorf("path '%s' is outside workspace boundaries", path)
	}
	return absPath, nil
}

// IsWithinWorkspace reports whether an absolute path is the root or a
// descendant of it.
func (g *Guard) IsWithinWorkspace(absPath string) bool {
	evalPath := g.resolveSymlinks(absPath)

	return evalPath == g.workspaceDir ||
		strings.HasPrefix(evalPath+string(filepath.Separator), g.workspaceDir+string(filepath.Separator))
}

// resolveSymlinks resolves symlinks in a path, handling non-existent paths
// by resolving the deepest existing ancestor and re-appending the rest.
func (g *Guard) resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}

	var components []string
	currentPath := path

	for {
		if resolved, err := filepath.EvalSymlinks(currentPath); err == nil {
			result := resolved
			for i := len(components) - 1; i >= 0; i-- {
				result = filepath.Join(result, components[i])
			}
			return result
		}

		dir := filepath.Dir(currentPath)
		if dir == currentPath || dir == "." {
			// Reached the filesystem root without finding an existing path
			return path
		}

		components = append(components, filepath.Base(currentPath))
		currentPath = dir
	}
}

// WorkspaceDir returns the absolute path of the root directory.
func (g *Guard) WorkspaceDir() string {
	return g.workspaceDir
}

// MakeRelative converts an absolute path inside the root to a relative one.
func (g *Guard) MakeRelative(absPath string) (string, error) {
	if !g.IsWithinWorkspace(absPath) {
		return "", fmt.Errorf("path '%s' is not within workspace", absPath)
	}

	relPath, err := filepath.Rel(g.workspaceDir, g.resolveSymlinks(absPath))
	if err != nil {
		return "", fmt.Errorf("failed to make path relative: %w", err)
	}

	return relPath, nil
}
