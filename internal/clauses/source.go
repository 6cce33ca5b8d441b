package clauses

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"oddrafter/internal/logging"
)

// Loader produces the current clause library. Implementations re-read their
// source on every call so that edits show up without a restart.
type Loader interface {
	Load(ctx context.Context) (*Library, error)
}

// Kind selects where clauses come from.
type Kind string

const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
	KindGit  Kind = "git"
)

// Options describes a clause source.
type Options struct {
	Kind Kind
	// Path is the mapping file for KindFile, the markdown directory for
	// KindDir and the checkout directory for KindGit.
	Path      string
	RemoteURL string
	Branch    string
	Subdir    string
	// SyncInterval bounds how often a git source contacts the remote.
	SyncInterval time.Duration
	Token        TokenFunc
}

// NewLoader builds the loader described by opts.
func NewLoader(opts Options, logger *logging.AppLogger) (Loader, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}

	switch opts.Kind {
	case KindFile, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("clause file path cannot be empty")
		}
		return FileLoader{Path: opts.Path}, nil
	case KindDir:
		if opts.Path == "" {
			return nil, fmt.Errorf("clause directory cannot be empty")
		}
		return DirLoader{Dir: opts.Path, Logger: logger}, nil
	case KindGit:
		return &GitLoader{
			Source: GitSource{
				RemoteURL: opts.RemoteURL,
				Branch:    opts.Branch,
				Path:      opts.Path,
				Subdir:    opts.Subdir,
				Token:     opts.Token,
			},
			Interval: opts.SyncInterval,
			Logger:   logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown clause source %q (want file, dir or git)", opts.Kind)
	}
}

// Static returns a loader that always yields lib.
func Static(lib *Library) Loader {
	return staticLoader{lib: lib}
}

type staticLoader struct {
	lib *Library
}

func (s staticLoader) Load(ctx context.Context) (*Library, error) {
	return s.lib, ctx.Err()
}

// FileLoader reads a JSON or YAML mapping file.
type FileLoader struct {
	Path string
}

func (f FileLoader) Load(ctx context.Context) (*Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(f.Path)
}

// DirLoader reads a directory of markdown clauses.
type DirLoader struct {
	Dir    string
	Logger *logging.AppLogger
}

func (d DirLoader) Load(ctx context.Context) (*Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadDir(d.Dir, d.Logger)
}

// GitLoader syncs a GitSource at most once per Interval and reads the
// checkout as a markdown directory. When the remote is unreachable an
// existing checkout is still served.
type GitLoader struct {
	Source   GitSource
	Interval time.Duration
	Logger   *logging.AppLogger

	mu       sync.Mutex
	dir      string
	lastSync time.Time
	now      func() time.Time
}

func (g *GitLoader) Load(ctx context.Context) (*Library, error) {
	dir, err := g.sync(ctx)
	if err != nil {
		return nil, err
	}
	return LoadDir(dir, g.Logger)
}

func (g *GitLoader) sync(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now
	if g.now != nil {
		now = g.now
	}

	if g.dir != "" && g.Interval > 0 && now().Sub(g.lastSync) < g.Interval {
		return g.dir, nil
	}

	dir, err := g.Source.Prepare(ctx, g.Logger)
	if err != nil {
		if g.dir != "" {
			if _, statErr := os.Stat(g.dir); statErr == nil {
				g.Logger.Warn("Clause repository sync failed, using cached checkout", "error", err)
				return g.dir, nil
			}
		}
		return "", fmt.Errorf("failed to prepare clause repository: %w", err)
	}

	g.dir = dir
	g.lastSync = now()
	return dir, nil
}
