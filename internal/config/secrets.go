package config

import (
	"fmt"

	"oddrafter/internal/credentials"
)

// SecretStore is the part of the credential manager config needs.
type SecretStore interface {
	Resolve(explicit, key string) (string, error)
}

// ResolveSecrets fills the Supabase key from the OS keyring when neither
// the file nor the environment provided one. The git token is resolved
// lazily by GitTokenFunc since most deployments never need it.
func (c *Config) ResolveSecrets(store SecretStore) error {
	if c.Storage.Backend != "supabase" {
		return nil
	}
	key, err := store.Resolve(c.Storage.SupabaseKey, credentials.SupabaseKey)
	if err != nil {
		return fmt.Errorf("failed to resolve Supabase key: %w", err)
	}
	c.Storage.SupabaseKey = key
	return nil
}

// GitTokenFunc returns a function yielding the git token for private clause
// repositories.
func (c *Config) GitTokenFunc(store SecretStore) func() (string, error) {
	explicit := c.Clauses.GitToken
	return func() (string, error) {
		return store.Resolve(explicit, credentials.GitToken)
	}
}
