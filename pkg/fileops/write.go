package fileops

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileExclusive atomically creates dir/name with data.
//
// The function uses a temporary file approach:
//  1. Creates a temporary file in the destination directory
//  2. Writes all data and syncs it to disk
//  3. Hard-links the temporary file to the final name, which fails with
//     fs.ErrExist if the name is already taken
//  4. Removes the temporary name
//
// Parameters:
//   - dir: Destination directory, which must exist
//   - name: Plain file name, validated with ValidateObjectName
//   - data: File contents
//
// Returns:
//   - error: Validation, write or link errors. An existing destination yields
//     an error wrapping fs.ErrExist.
func WriteFileExclusive(dir, name string, data []byte) error {
	if err := ValidateObjectName(name); err != nil {
		return fmt.Errorf("invalid file name: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()

	// The temporary name is always removed; after a successful link the data
	// lives on under the final name.
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write file contents: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0o644); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	if err := os.Link(tempPath, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("failed to publish file: %w", err)
	}

	return nil
}

// EnsureDirectoryExists creates a directory and all necessary parent directories.
// This is equivalent to `mkdir -p` and is safe to call multiple times.
func EnsureDirectoryExists(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
