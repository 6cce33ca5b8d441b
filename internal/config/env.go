package config

import (
	"os"
	"time"

	"oddrafter/internal/logging"
)

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{envVar: "SUPABASE_URL", apply: func(c *Config, v string) { c.Storage.SupabaseURL = v }},
	{envVar: "SUPABASE_KEY", apply: func(c *Config, v string) { c.Storage.SupabaseKey = v }},
	{envVar: "ODDRAFTER_ADDR", apply: func(c *Config, v string) { c.Server.Addr = v }},
	{envVar: "ODDRAFTER_ENDPOINT", apply: func(c *Config, v string) { c.Server.Endpoint = v }},
	{envVar: "ODDRAFTER_STORAGE_BACKEND", apply: func(c *Config, v string) { c.Storage.Backend = v }},
	{envVar: "ODDRAFTER_BUCKET", apply: func(c *Config, v string) { c.Storage.Bucket = v }},
	{envVar: "ODDRAFTER_STORAGE_DIR", apply: func(c *Config, v string) { c.Storage.Dir = v }},
	{envVar: "ODDRAFTER_PUBLIC_BASE_URL", apply: func(c *Config, v string) { c.Storage.PublicBaseURL = v }},
	{envVar: "ODDRAFTER_CLAUSES_SOURCE", apply: func(c *Config, v string) { c.Clauses.Source = v }},
	{envVar: "ODDRAFTER_CLAUSES_PATH", apply: func(c *Config, v string) { c.Clauses.Path = v }},
	{envVar: "ODDRAFTER_CLAUSES_REPO", apply: func(c *Config, v string) { c.Clauses.RemoteURL = v }},
	{envVar: "ODDRAFTER_CLAUSES_BRANCH", apply: func(c *Config, v string) { c.Clauses.Branch = v }},
	{envVar: "ODDRAFTER_CLAUSES_SYNC_INTERVAL", apply: func(c *Config, v string) {
		d, err := time.ParseDuration(v)
		if err != nil {
			logging.Warn("Ignoring invalid duration", "var", "ODDRAFTER_CLAUSES_SYNC_INTERVAL", "value", v)
			return
		}
		c.Clauses.SyncInterval = d
	}},
	{envVar: "ODDRAFTER_GIT_TOKEN", apply: func(c *Config, v string) { c.Clauses.GitToken = v }},
	{envVar: "ODDRAFTER_LOG_LEVEL", apply: func(c *Config, v string) { c.LogLevel = v }},
	{envVar: "ODDRAFTER_LOG_FILE", apply: func(c *Config, v string) { c.LogFile = v }},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}
