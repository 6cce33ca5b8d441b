package fileops

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FileInfo describes a file discovered by ScanWithFilter.
type FileInfo struct {
	Name string // base name
	Path string // slash-separated path relative to the scan root
	Size int64
}

// defaultSkipPatterns are directory names never descended into.
var defaultSkipPatterns = []string{
	".git",
	"node_modules",
	"vendor",
	".cache",
	"__pycache__",
}

// ScanWithFilter walks scanPath and returns every regular file accepted by
// fileFilter, sorted by path. Symlinks are never followed and hidden
// directories are skipped. maxDepth of 0 means unlimited.
func ScanWithFilter(scanPath string, fileFilter func(string) bool, maxDepth int) ([]FileInfo, error) {
	if strings.TrimSpace(scanPath) == "" {
		return nil, fmt.Errorf("scan path cannot be empty")
	}

	absPath, err := filepath.Abs(ExpandPath(scanPath))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve scan path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open scan root: %w", err)
	}
	defer root.Close()

	var results []FileInfo
	err = fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if path == "." {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || slices.Contains(defaultSkipPatterns, d.Name()) {
				return fs.SkipDir
			}
			if maxDepth > 0 && strings.Count(path, "/")+1 >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if fileFilter != nil && !fileFilter(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("cannot stat %s: %w", path, err)
		}

		results = append(results, FileInfo{
			Name: d.Name(),
			Path: path,
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("directory scan failed: %w", err)
	}

	slices.SortFunc(results, func(a, b FileInfo) int {
		return strings.Compare(a.Path, b.Path)
	})
	return results, nil
}
