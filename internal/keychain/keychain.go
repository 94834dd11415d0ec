// Package keychain stores the coordinator API key in the OS-native secret
// store (macOS Keychain, Windows Credential Manager, Secret Service on
// Linux) under a fixed service/account pair.
package keychain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	ServiceName   = "com.baystate.scraper"
	APIKeyAccount = "api_key"

	// KeyPrefix is the required literal prefix of every coordinator key.
	KeyPrefix = "bsr_"
)

var (
	// ErrInvalidKey reports a key that does not carry the bsr_ prefix.
	ErrInvalidKey = fmt.Errorf("api key must start with %q", KeyPrefix)

	// ErrNotFound reports that no API key entry exists.
	ErrNotFound = errors.New("api key not found")
)

// notFoundMarkers are substrings observed in backend not-found errors across
// platforms and library versions. Matching on them is best-effort: an
// unrecognized backend message classifies as an access error instead.
var notFoundMarkers = []string{
	"no matching entry",
	"not found",
	"noentry",
}

// provider abstracts go-keyring for tests.
type provider interface {
	Set(service, user, password string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

type osKeyring struct{}

func (osKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}
func (osKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }
func (osKeyring) Delete(service, user string) error        { return keyring.Delete(service, user) }

// Adapter wraps the OS secret store for the single API-key entry.
type Adapter struct {
	provider provider
}

func NewAdapter() *Adapter {
	return &Adapter{provider: osKeyring{}}
}

func newAdapterWithProvider(p provider) *Adapter {
	return &Adapter{provider: p}
}

// Store validates and persists the API key, overwriting any existing entry.
// The write may trigger an OS permission prompt.
func (a *Adapter) Store(key string) error {
	if !strings.HasPrefix(key, KeyPrefix) {
		return ErrInvalidKey
	}
	if err := a.provider.Set(ServiceName, APIKeyAccount, key); err != nil {
		return fmt.Errorf("keychain store: %w", err)
	}
	return nil
}

// Retrieve returns the stored API key. A missing entry yields ErrNotFound;
// every other backend failure (permission denial, backend unavailable)
// surfaces as a generic access error.
func (a *Adapter) Retrieve() (string, error) {
	val, err := a.provider.Get(ServiceName, APIKeyAccount)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keychain access: %w", err)
	}
	return val, nil
}

// Delete removes the entry. The backend may still error when the entry is
// already absent; callers doing a reset treat that as non-fatal.
func (a *Adapter) Delete() error {
	if err := a.provider.Delete(ServiceName, APIKeyAccount); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("keychain delete: %w", ErrNotFound)
		}
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// Exists reports whether an API key is stored. It is defined as a
// successful Retrieve, never a separate backend existence check.
func (a *Adapter) Exists() bool {
	_, err := a.Retrieve()
	return err == nil
}

func isNotFound(err error) bool {
	if errors.Is(err, keyring.ErrNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range notFoundMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
