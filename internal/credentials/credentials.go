// Package credentials keeps oddrafter's secrets in the OS credential store.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"oddrafter/internal/logging"
)

const (
	// Service name for OS credential store
	credentialService = "oddrafter"

	// SupabaseKey names the Supabase service key entry.
	SupabaseKey = "supabase_key"
	// GitToken names the token used to fetch a private clause repository.
	GitToken = "git_token"
)

var (
	// ErrNotStored is returned when no secret is stored under a key.
	ErrNotStored = errors.New("credential not stored")
	// ErrUnavailable is returned when the OS credential store cannot be
	// reached, e.g. a container without a D-Bus secret service.
	ErrUnavailable = errors.New("credential store unavailable")
)

// Manager handles secure storage and retrieval of credentials.
type Manager struct {
	service string
}

// NewManager creates a credential manager for the oddrafter service.
func NewManager() *Manager {
	return &Manager{service: credentialService}
}

// Store saves secret under key, replacing any previous value.
func (m *Manager) Store(key, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if err := validateKey(key); err != nil {
		return err
	}

	if err := keyring.Set(m.service, key, strings.TrimSpace(secret)); err != nil {
		return fmt.Errorf("failed to store %s in credential store: %w", key, err)
	}
	return nil
}

// Get retrieves the secret stored under key.
func (m *Manager) Get(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	secret, err := keyring.Get(m.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s (run 'oddrafter auth set-key')", ErrNotStored, key)
		}
		return "", fmt.Errorf("failed to retrieve %s: %w: %w", key, ErrUnavailable, err)
	}

	if strings.TrimSpace(secret) == "" {
		return "", fmt.Errorf("%w: stored %s is empty", ErrNotStored, key)
	}
	return secret, nil
}

// Delete removes the secret under key. Deleting a missing key is not an error.
func (m *Manager) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := keyring.Delete(m.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s from credential store: %w", key, err)
	}
	return nil
}

// Has reports whether a secret is stored under key without returning it.
func (m *Manager) Has(key string) bool {
	_, err := m.Get(key)
	return err == nil
}

// Resolve returns explicit when it is set, otherwise the stored secret for
// key. A missing secret or an unreachable credential store yields "" and no
// error so callers can report their own configuration error.
func (m *Manager) Resolve(explicit, key string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	secret, err := m.Get(key)
	switch {
	case errors.Is(err, ErrNotStored):
		return "", nil
	case errors.Is(err, ErrUnavailable):
		logging.Debug("Credential store unavailable", "key", key, "error", err)
		return "", nil
	}
	return secret, err
}

func validateKey(key string) error {
	switch key {
	case SupabaseKey, GitToken:
		return nil
	default:
		return fmt.Errorf("unknown credential %q", key)
	}
}
