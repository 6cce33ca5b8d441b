package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"oddrafter/internal/logging"
	"oddrafter/pkg/fileops"
)

// LocalStore keeps objects as files in one directory. Reads go through an
// os.Root so a crafted name can never leave the directory.
type LocalStore struct {
	dir           string
	root          *os.Root
	publicBaseURL string
	logger        *logging.AppLogger
}

// NewLocalStore opens (creating if needed) dir as an object store.
func NewLocalStore(dir, publicBaseURL string, logger *logging.AppLogger) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage directory cannot be empty")
	}

	absDir, err := filepath.Abs(fileops.ExpandPath(dir))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve storage directory: %w", err)
	}

	if err := fileops.EnsureDirectoryExists(absDir); err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(absDir)
	if err != nil {
		return nil, fmt.Errorf("cannot create secure root: %w", err)
	}

	if logger == nil {
		logger = logging.GetDefault()
	}
	logger.Debug("Opened local store", "dir", absDir)

	return &LocalStore{
		dir:           absDir,
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Dir returns the absolute directory backing the store.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Close releases the directory handle.
func (s *LocalStore) Close() error {
	return s.root.Close()
}

func (s *LocalStore) List(ctx context.Context) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}

	var objects []Object
	for _, entry := range entries {
		// in-flight temporary files are hidden
		if strings.HasPrefix(entry.Name(), ".") || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.logger.Debug("Skipping unreadable entry", "name", entry.Name(), "error", err)
			continue
		}
		objects = append(objects, Object{
			Name:      entry.Name(),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}

	return objects, nil
}

func (s *LocalStore) Download(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := fileops.ValidateObjectName(name); err != nil {
		return nil, fmt.Errorf("invalid object name: %w", err)
	}

	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func (s *LocalStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fileops.WriteFileExclusive(s.dir, name, data); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, name)
		}
		return err
	}

	s.logger.Debug("Stored object", "name", name, "bytes", len(data), "contentType", contentType)
	return nil
}

func (s *LocalStore) PublicURL(name string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + url.PathEscape(name)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.dir, name))}
	return u.String()
}
