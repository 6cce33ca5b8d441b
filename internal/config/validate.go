package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// Validate checks all config values. It returns nil if valid, or the joined
// errors for every failure.
func (c *Config) Validate() error {
	var errs []error
	add := func(field string, value any, msg string) {
		errs = append(errs, &ValidationError{Field: field, Value: value, Message: msg})
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		add("server.addr", c.Server.Addr, "must not be empty")
	}
	if !strings.HasPrefix(c.Server.Endpoint, "/") {
		add("server.endpoint", c.Server.Endpoint, "must start with /")
	}
	if c.Server.ShutdownTimeout < 0 {
		add("server.shutdown_timeout", c.Server.ShutdownTimeout, "must not be negative")
	}

	switch c.Storage.Backend {
	case "supabase":
		if c.Storage.SupabaseURL == "" {
			add("storage.supabase_url", c.Storage.SupabaseURL, "must be set (SUPABASE_URL)")
		} else if u, err := url.Parse(c.Storage.SupabaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("storage.supabase_url", c.Storage.SupabaseURL, "must be an absolute URL")
		}
		if c.Storage.SupabaseKey == "" {
			add("storage.supabase_key", "<empty>", "must be set (SUPABASE_KEY or oddrafter auth set-key)")
		}
		if c.Storage.Bucket == "" {
			add("storage.bucket", c.Storage.Bucket, "must not be empty")
		}
	case "local":
		if c.Storage.Dir == "" {
			add("storage.dir", c.Storage.Dir, "must be set for the local backend")
		}
	case "memory":
	default:
		add("storage.backend", c.Storage.Backend, "must be one of supabase, local, memory")
	}

	switch c.Clauses.Source {
	case "file", "dir":
		if c.Clauses.Path == "" {
			add("clauses.path", c.Clauses.Path, "must not be empty")
		}
	case "git":
		if c.Clauses.RemoteURL == "" {
			add("clauses.remote_url", c.Clauses.RemoteURL, "must be set for the git source")
		}
		if c.Clauses.SyncInterval < 0 {
			add("clauses.sync_interval", c.Clauses.SyncInterval, "must not be negative")
		}
	default:
		add("clauses.source", c.Clauses.Source, "must be one of file, dir, git")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		add("log_level", c.LogLevel, "must be one of debug, info, warn, error")
	}

	return errors.Join(errs...)
}
