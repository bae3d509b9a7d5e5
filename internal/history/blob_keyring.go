package history

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const keyringService = "ezquery-history"

// KeyringBlobStore keeps blobs in the system keyring
type KeyringBlobStore struct {
	ring keyring.Keyring
}

// OpenKeyringBlobStore opens the system keyring
func OpenKeyringBlobStore() (*KeyringBlobStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: keyringService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return NewKeyringBlobStore(ring), nil
}

// NewKeyringBlobStore wraps an already opened keyring
func NewKeyringBlobStore(ring keyring.Keyring) *KeyringBlobStore {
	return &KeyringBlobStore{ring: ring}
}

func (k *KeyringBlobStore) Get(key string) (string, error) {
	item, err := k.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (k *KeyringBlobStore) Set(key, value string) error {
	return k.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "ezquery query history",
	})
}

func (k *KeyringBlobStore) Remove(key string) error {
	err := k.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
