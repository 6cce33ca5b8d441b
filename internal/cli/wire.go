package cli

import (
	"fmt"
	"io"

	"oddrafter/internal/clauses"
	"oddrafter/internal/config"
	"oddrafter/internal/drafter"
	"oddrafter/internal/logging"
	"oddrafter/internal/storage"
)

// loadConfig reads the configuration and applies command line overrides.
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.ResolveSecrets(a.secrets); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// buildLogger creates the application logger and installs it as the
// package default.
func buildLogger(cfg *config.Config) (*logging.AppLogger, error) {
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}
	logging.SetDefault(logger)
	return logger, nil
}

func buildStore(cfg *config.Config, logger *logging.AppLogger) (storage.Store, error) {
	return storage.New(storage.Options{
		Backend:       cfg.Storage.Backend,
		SupabaseURL:   cfg.Storage.SupabaseURL,
		SupabaseKey:   cfg.Storage.SupabaseKey,
		Bucket:        cfg.Storage.Bucket,
		Dir:           cfg.Storage.Dir,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}, logger)
}

func (a *App) buildLoader(cfg *config.Config, logger *logging.AppLogger) (clauses.Loader, error) {
	path := cfg.Clauses.Path
	if cfg.Clauses.Source == string(clauses.KindGit) && path == config.DefaultClausePath {
		// the file default makes no sense as a checkout directory
		path = config.DefaultCacheDir()
	}
	return clauses.NewLoader(clauses.Options{
		Kind:         clauses.Kind(cfg.Clauses.Source),
		Path:         path,
		RemoteURL:    cfg.Clauses.RemoteURL,
		Branch:       cfg.Clauses.Branch,
		Subdir:       cfg.Clauses.Subdir,
		SyncInterval: cfg.Clauses.SyncInterval,
		Token:        cfg.GitTokenFunc(a.secrets),
	}, logger)
}

// runtime holds everything a command needs once configuration is loaded.
type runtime struct {
	cfg     *config.Config
	logger  *logging.AppLogger
	store   storage.Store
	drafter *drafter.Service
}

// Close releases the store and the log file.
func (r *runtime) Close() {
	if c, ok := r.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			r.logger.Warn("Failed to close store", "error", err)
		}
	}
	_ = r.logger.Close()
}

// wire builds the drafter service from configuration.
func (a *App) wire() (*runtime, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(cfg, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	loader, err := a.buildLoader(cfg, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	return &runtime{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		drafter: drafter.New(store, loader, logger),
	}, nil
}
