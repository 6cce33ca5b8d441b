package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateObjectName validates that name is safe to use as a single entry in a
// flat storage directory.
//
// The function checks:
//   - Name is not empty or whitespace only
//   - Name contains no path separators or traversal sequences
//   - Name contains no control characters or null bytes
func ValidateObjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("path separators not allowed")
	}

	for _, r := range name {
		if r < 32 || r == 127 {
			return fmt.Errorf("name contains control characters")
		}
	}

	if filepath.Base(name) != name {
		return fmt.Errorf("name must be a plain file name")
	}

	return nil
}

// ValidateFileSizeLimit checks if a file size is within acceptable limits.
// This function helps prevent memory exhaustion from very large files.
//
// Parameters:
//   - filePath: Path to the file to check
//   - maxSize: Maximum allowed file size in bytes
//
// Returns:
//   - error: Validation error if file exceeds size limit or cannot be accessed
func ValidateFileSizeLimit(filePath string, maxSize int64) error {
	if maxSize <= 0 {
		return fmt.Errorf("invalid size limit: %d", maxSize)
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filepath.Base(filePath))
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if fileInfo.Size() > maxSize {
		return fmt.Errorf("file size %d bytes exceeds limit %d bytes", fileInfo.Size(), maxSize)
	}

	return nil
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if home directory unavailable
	}

	return filepath.Join(home, path[2:])
}
