// Package drafter implements the Order Document edits offered to MCP
// clients: appending a legal clause and adding a pricing row.
//
// Every edit reads the latest version of a quote, changes it in memory and
// stores the result as a new version. Stored versions are never modified.
package drafter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oddrafter/internal/clauses"
	"oddrafter/internal/docx"
	"oddrafter/internal/logging"
	"oddrafter/internal/storage"
	"oddrafter/internal/versions"
)

// Status is the outcome of an edit that did not fail.
type Status int

const (
	StatusCreated Status = iota
	StatusAlreadyPresent
	StatusClauseNotFound
	StatusQuoteNotFound
	StatusNoTables
	StatusMissingFields
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusAlreadyPresent:
		return "already_present"
	case StatusClauseNotFound:
		return "clause_not_found"
	case StatusQuoteNotFound:
		return "quote_not_found"
	case StatusNoTables:
		return "no_tables"
	case StatusMissingFields:
		return "missing_fields"
	default:
		return "unknown"
	}
}

// Progress receives human readable status updates while an edit runs.
type Progress func(ctx context.Context, message string)

// maxAttempts bounds retries when another writer takes the next version
// name first.
const maxAttempts = 3

// Service performs edits against a document store.
type Service struct {
	store   storage.Store
	clauses clauses.Loader
	logger  *logging.AppLogger
}

// New creates a Service. A nil logger uses the package default.
func New(store storage.Store, loader clauses.Loader, logger *logging.AppLogger) *Service {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Service{store: store, clauses: loader, logger: logger}
}

// Clauses returns the current clause library.
func (s *Service) Clauses(ctx context.Context) (*clauses.Library, error) {
	lib, err := s.clauses.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clauses: %w", err)
	}
	return lib, nil
}

// PublicURL returns the address a client can open a stored version at.
func (s *Service) PublicURL(name string) string {
	return s.store.PublicURL(name)
}

// Versions returns every stored version of quote, oldest first.
func (s *Service) Versions(ctx context.Context, quote string) ([]versions.Version, error) {
	m, err := versions.NewMatcher(quote)
	if err != nil {
		return nil, err
	}
	objects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return m.Filter(storage.Names(objects)), nil
}

// latest is one downloaded version of a quote.
type latest struct {
	version versions.Version
	doc     *docx.Document
	names   []string
}

// fetchLatest downloads and opens the newest version of quote. found is
// false when the quote has no stored versions.
func (s *Service) fetchLatest(ctx context.Context, m *versions.Matcher) (l latest, found bool, err error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return latest{}, false, fmt.Errorf("failed to list documents: %w", err)
	}
	names := storage.Names(objects)

	v, ok := m.Latest(names)
	if !ok {
		return latest{}, false, nil
	}

	s.logger.Debug("Fetching latest version", "quote", m.Quote(), "name", v.Name)
	data, err := s.store.Download(ctx, v.Name)
	if err != nil {
		return latest{}, false, fmt.Errorf("failed to download %s: %w", v.Name, err)
	}

	doc, err := docx.Open(data)
	if err != nil {
		return latest{}, false, fmt.Errorf("failed to open %s: %w", v.Name, err)
	}
	return latest{version: v, doc: doc, names: names}, true, nil
}

// saveNext stores doc as the next version after every name in names.
func (s *Service) saveNext(ctx context.Context, m *versions.Matcher, names []string, doc *docx.Document) (versions.Version, string, error) {
	data, err := doc.Bytes()
	if err != nil {
		return versions.Version{}, "", fmt.Errorf("failed to serialise document: %w", err)
	}

	next, err := m.Next(names)
	if err != nil {
		return versions.Version{}, "", err
	}
	if err := s.store.Upload(ctx, next.Name, data, storage.DocxContentType); err != nil {
		return versions.Version{}, "", fmt.Errorf("upload failed: %w", err)
	}
	return next, s.store.PublicURL(next.Name), nil
}

// editFunc inspects and changes doc. It returns a non-Created status to
// stop without uploading.
type editFunc func(l latest) (Status, error)

// edit runs the fetch, change, upload cycle, starting over when the next
// version name was taken by a concurrent writer.
func (s *Service) edit(ctx context.Context, m *versions.Matcher, onFetched func(l latest), change editFunc) (Status, latest, versions.Version, string, error) {
	for attempt := 1; ; attempt++ {
		l, found, err := s.fetchLatest(ctx, m)
		if err != nil {
			return 0, latest{}, versions.Version{}, "", err
		}
		if !found {
			return StatusQuoteNotFound, latest{}, versions.Version{}, "", nil
		}
		if onFetched != nil {
			onFetched(l)
		}

		status, err := change(l)
		if err != nil || status != StatusCreated {
			return status, l, versions.Version{}, "", err
		}

		created, url, err := s.saveNext(ctx, m, l.names, l.doc)
		if errors.Is(err, storage.ErrExists) && attempt < maxAttempts {
			s.logger.Warn("Version name taken by another writer, retrying", "quote", m.Quote(), "attempt", attempt)
			continue
		}
		if err != nil {
			return 0, l, versions.Version{}, "", err
		}
		return StatusCreated, l, created, url, nil
	}
}

func report(ctx context.Context, progress Progress, message string) {
	if progress != nil {
		progress(ctx, message)
	}
}

func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
