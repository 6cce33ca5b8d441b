package config

import "time"

// Default values for configuration.
const (
	DefaultAddr            = ":8000"
	DefaultEndpoint        = "/mcp"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBackend         = "supabase"
	DefaultBucket          = "od-files"
	DefaultClauseSource    = "file"
	DefaultClausePath      = "data/clauses.json"
	DefaultSyncInterval    = 5 * time.Minute
	DefaultLogLevel        = "warn"
)

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			Endpoint:        DefaultEndpoint,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Storage: StorageConfig{
			Backend: DefaultBackend,
			Bucket:  DefaultBucket,
		},
		Clauses: ClauseConfig{
			Source:       DefaultClauseSource,
			Path:         DefaultClausePath,
			SyncInterval: DefaultSyncInterval,
		},
		LogLevel: DefaultLogLevel,
	}
}
