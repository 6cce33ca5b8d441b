package config

import (
	"errors"
	"strings"
	"testing"
)

func validSupabase() Config {
	cfg := Defaults()
	cfg.Storage.SupabaseURL = "https://abc.supabase.co"
	cfg.Storage.SupabaseKey = "key"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{name: "valid supabase", mutate: func(c *Config) {}},
		{name: "valid local", mutate: func(c *Config) { c.Storage = StorageConfig{Backend: "local", Dir: "/srv"} }},
		{name: "valid memory", mutate: func(c *Config) { c.Storage = StorageConfig{Backend: "memory"} }},
		{name: "valid git", mutate: func(c *Config) {
			c.Clauses = ClauseConfig{Source: "git", RemoteURL: "https://github.com/acme/clauses.git", Path: "/cache"}
		}},
		{name: "missing url", mutate: func(c *Config) { c.Storage.SupabaseURL = "" }, wantField: "storage.supabase_url"},
		{name: "relative url", mutate: func(c *Config) { c.Storage.SupabaseURL = "abc.supabase.co" }, wantField: "storage.supabase_url"},
		{name: "missing key", mutate: func(c *Config) { c.Storage.SupabaseKey = "" }, wantField: "storage.supabase_key"},
		{name: "missing bucket", mutate: func(c *Config) { c.Storage.Bucket = "" }, wantField: "storage.bucket"},
		{name: "local without dir", mutate: func(c *Config) { c.Storage = StorageConfig{Backend: "local"} }, wantField: "storage.dir"},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "s3" }, wantField: "storage.backend"},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = " " }, wantField: "server.addr"},
		{name: "relative endpoint", mutate: func(c *Config) { c.Server.Endpoint = "mcp" }, wantField: "server.endpoint"},
		{name: "unknown clause source", mutate: func(c *Config) { c.Clauses.Source = "ftp" }, wantField: "clauses.source"},
		{name: "git without url", mutate: func(c *Config) { c.Clauses.Source = "git" }, wantField: "clauses.remote_url"},
		{name: "file without path", mutate: func(c *Config) { c.Clauses.Path = "" }, wantField: "clauses.path"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantField: "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validSupabase()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate() expected error for %s", tt.wantField)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), "config."+tt.wantField) {
				t.Errorf("error %q does not mention %s", err, tt.wantField)
			}
		})
	}
}

func TestValidate_JoinsAllFailures(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Addr = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, field := range []string{"server.addr", "storage.supabase_url", "storage.supabase_key"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("joined error missing %s: %v", field, err)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "storage.bucket", Value: "", Message: "must not be empty"}
	want := "config.storage.bucket: must not be empty (got: )"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
