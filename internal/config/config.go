package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"oddrafter/internal/logging"
)

const AppName = "oddrafter" // application name used for config directory

// Config holds the server configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Storage  StorageConfig `yaml:"storage"`
	Clauses  ClauseConfig  `yaml:"clauses"`
	LogLevel string        `yaml:"log_level"`
	LogFile  string        `yaml:"log_file,omitempty"`
}

// ServerConfig controls the MCP HTTP listener.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Endpoint string `yaml:"endpoint"`
	// ShutdownTimeout bounds how long in-flight requests may run after a
	// termination signal.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects and configures the document store.
type StorageConfig struct {
	// Backend is one of supabase, local or memory.
	Backend     string `yaml:"backend"`
	SupabaseURL string `yaml:"supabase_url,omitempty"`
	// SupabaseKey is normally supplied by SUPABASE_KEY or the OS keyring
	// rather than written to the file.
	SupabaseKey   string `yaml:"supabase_key,omitempty"`
	Bucket        string `yaml:"bucket"`
	Dir           string `yaml:"dir,omitempty"`
	PublicBaseURL string `yaml:"public_base_url,omitempty"`
}

// ClauseConfig selects the clause library source.
type ClauseConfig struct {
	// Source is one of file, dir or git.
	Source       string        `yaml:"source"`
	Path         string        `yaml:"path"`
	RemoteURL    string        `yaml:"remote_url,omitempty"`
	Branch       string        `yaml:"branch,omitempty"`
	Subdir       string        `yaml:"subdir,omitempty"`
	SyncInterval time.Duration `yaml:"sync_interval,omitempty"`
	// GitToken only ever comes from the environment or the keyring.
	GitToken string `yaml:"-"`
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultCacheDir is where remote clause repositories are checked out.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName, "clauses")
}

// Load builds the effective configuration: defaults, then the YAML file,
// then a .env file in the working directory, then environment variables.
//
// An empty path means ConfigPath(), which may be absent. An explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = ConfigPath()
	}

	if err := loadFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logging.Debug("No config file, using defaults", "path", path)
		} else {
			return nil, err
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadFrom reads a config file over the defaults without consulting the
// environment.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()
	if err := loadFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	logging.Debug("Decoding config file", "path", path)
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadDotEnv loads KEY=value pairs without overriding variables that are
// already set. A missing file is ignored.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logging.Debug("Loaded environment file", "path", path)
	return nil
}

// SaveTo writes the config to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600 since the file may carry a storage key
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
