package workspace

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNewGuard(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name         string
		workspaceDir string
		wantErr      bool
	}{
		{
			name:         "valid existing directory",
			workspaceDir: tmpDir,
			wantErr:      false,
		},
		{
			name:         "current directory",
			workspaceDir: ".",
			wantErr:      false,
		},
		{
			name:         "empty directory",
			workspaceDir: "",
			wantErr:      true,
		},
		{
			name:         "non-existent directory",
			workspaceDir: filepath.Join(tmpDir, "does-not-exist"),
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, err := NewGuard(tt.workspaceDir)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGuard() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && guard.WorkspaceDir() == "" {
				t.Error("NewGuard() created guard with empty workspace directory")
			}
		})
	}
}

func TestGuard_ResolvePath(t *testing.T) {
	tmpDir := t.TempDir()
	guard, err := NewGuard(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create guard: %v", err)
	}
	root := guard.WorkspaceDir()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{
			name: "archive entry at root",
			path: "manifest.json",
			want: filepath.Join(root, "manifest.json"),
		},
		{
			name: "nested archive entry",
			path: "ext/icons/16.png",
			want: filepath.Join(root, "ext", "icons", "16.png"),
		},
		{
			name: "dot segments that stay inside",
			path: "ext/../manifest.json",
			want: filepath.Join(root, "manifest.json"),
		},
		{
			name: "root itself",
			path: ".",
			want: root,
		},
		{
			name:    "parent escape",
			path:    "../evil.sh",
			wantErr: true,
		},
		{
			name:    "deep parent escape",
			path:    "a/b/../../../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "absolute path outside",
			path:    filepath.Join(filepath.Dir(root), "sibling", "x"),
			wantErr: true,
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.ResolvePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolvePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ResolvePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGuard_IsWithinWorkspace(t *testing.T) {
	guard, err := NewGuard(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create guard: %v", err)
	}
	root := guard.WorkspaceDir()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"root", root, true},
		{"child", filepath.Join(root, "a"), true},
		{"grandchild that does not exist", filepath.Join(root, "a", "b", "c"), true},
		{"parent", filepath.Dir(root), false},
		{"sibling sharing prefix", root + "-other", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guard.IsWithinWorkspace(tt.path); got != tt.want {
				t.Errorf("IsWithinWorkspace(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGuard_MakeRelative(t *testing.T) {
	guard, err := NewGuard(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create guard: %v", err)
	}
	root := guard.WorkspaceDir()

	rel, err := guard.MakeRelative(filepath.Join(root, "ext", "manifest.json"))
	if err != nil {
		t.Fatalf("MakeRelative() error = %v", err)
	}
	if want := filepath.Join("ext", "manifest.json"); rel != want {
		t.Errorf("MakeRelative() = %v, want %v", rel, want)
	}

	if _, err := guard.MakeRelative(filepath.Dir(root)); err == nil {
		t.Error("MakeRelative() should reject a path outside the workspace")
	}
}

func TestGuard_SymlinkSecurity(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated rights on windows")
	}

	tmpDir := t.TempDir()
	outsideDir := t.TempDir()

	guard, err := NewGuard(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create guard: %v", err)
	}

	symlinkPath := filepath.Join(tmpDir, "link-to-outside")
	if err := os.Symlink(outsideDir, symlinkPath); err != nil {
		t.Skipf("Cannot create symlink (may need permissions): %v", err)
	}

	if err := guard.ValidatePath("link-to-outside/file.txt"); err == nil {
		t.Error("ValidatePath() should reject symlink pointing outside workspace")
	}
}
