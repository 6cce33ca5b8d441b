// Package storage abstracts the object store that holds quote documents.
//
// Objects live in a single flat namespace (a Supabase bucket root or a local
// directory). Uploads never replace an existing object, so every document
// revision is kept.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oddrafter/internal/logging"
)

// DocxContentType is the MIME type used when uploading quote documents.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	// ErrNotFound is returned when a named object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrExists is returned when an upload targets a name that is taken.
	ErrExists = errors.New("object already exists")
)

// Object describes one stored object.
type Object struct {
	Name      string
	Size      int64
	UpdatedAt time.Time
}

// Store is the set of object operations the drafter relies on.
type Store interface {
	// List returns every object in the store root.
	List(ctx context.Context) ([]Object, error)
	// Download returns the contents of name, or ErrNotFound.
	Download(ctx context.Context, name string) ([]byte, error)
	// Upload creates name with data. It fails with ErrExists rather than
	// overwrite.
	Upload(ctx context.Context, name string, data []byte, contentType string) error
	// PublicURL returns the address clients can fetch name from.
	PublicURL(name string) string
}

// Backend names accepted by New.
const (
	BackendSupabase = "supabase"
	BackendLocal    = "local"
	BackendMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Supabase
	SupabaseURL string
	SupabaseKey string
	Bucket      string

	// Local
	Dir           string
	PublicBaseURL string
}

// New builds the Store described by opts.
func New(opts Options, logger *logging.AppLogger) (Store, error) {
	switch opts.Backend {
	case BackendSupabase, "":
		return NewSupabaseStore(opts.SupabaseURL, opts.SupabaseKey, opts.Bucket, logger)
	case BackendLocal:
		return NewLocalStore(opts.Dir, opts.PublicBaseURL, logger)
	case BackendMemory:
		return NewMemoryStore(opts.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// Names extracts object names, keeping listing order.
func Names(objects []Object) []string {
	names := make([]string, len(objects))
	for i, o := range objects {
		names[i] = o.Name
	}
	return names
}
