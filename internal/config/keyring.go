// internal/config/keyring.go
package config

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "ezquery"

// openKeyring is swapped out in tests
var openKeyring = func() (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
}

// KeyringStore manages secrets stored in the system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore creates a new keyring store instance
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// SetSecret stores a secret under name
func (k *KeyringStore) SetSecret(name, secret string) error {
	return k.ring.Set(keyring.Item{
		Key:  name,
		Data: []byte(secret),
	})
}

// GetSecret retrieves the secret stored under name
func (k *KeyringStore) GetSecret(name string) (string, error) {
	item, err := k.ring.Get(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("secret not found: %s", name)
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

// DeleteSecret removes the secret stored under name
func (k *KeyringStore) DeleteSecret(name string) error {
	return k.ring.Remove(name)
}
