package fileops

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func createTempDirStructure(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"payment.md":              "payment terms",
		"notes.txt":               "not markdown",
		"liability/limitation.md": "limitation",
		"liability/deep/cap.md":   "cap",
		".hidden/secret.md":       "hidden",
		".git/HEAD.md":            "git",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	return dir
}

func isMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md")
}

func TestScanWithFilter(t *testing.T) {
	dir := createTempDirStructure(t)

	files, err := ScanWithFilter(dir, isMarkdown, 0)
	if err != nil {
		t.Fatalf("ScanWithFilter failed: %v", err)
	}

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	want := []string{"liability/deep/cap.md", "liability/limitation.md", "payment.md"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, paths)
	}
}

func TestScanWithFilter_MaxDepth(t *testing.T) {
	dir := createTempDirStructure(t)

	files, err := ScanWithFilter(dir, isMarkdown, 2)
	if err != nil {
		t.Fatalf("ScanWithFilter failed: %v", err)
	}
	for _, f := range files {
		if strings.Count(f.Path, "/") > 1 {
			t.Errorf("File beyond max depth returned: %s", f.Path)
		}
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 files within depth 2, got %d", len(files))
	}
}

func TestScanWithFilter_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on Windows")
	}
	dir := createTempDirStructure(t)
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "outside.md"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "outside.md"), filepath.Join(dir, "link.md")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	files, err := ScanWithFilter(dir, isMarkdown, 0)
	if err != nil {
		t.Fatalf("ScanWithFilter failed: %v", err)
	}
	for _, f := range files {
		if f.Name == "link.md" {
			t.Error("Symlinked file should not be returned")
		}
	}
}

func TestScanWithFilter_Errors(t *testing.T) {
	if _, err := ScanWithFilter("", isMarkdown, 0); err == nil {
		t.Error("Expected error for empty path")
	}
	if _, err := ScanWithFilter(filepath.Join(t.TempDir(), "missing"), isMarkdown, 0); err == nil {
		t.Error("Expected error for missing directory")
	}
}
