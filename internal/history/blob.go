package history

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by a BlobStore when a key has no value
var ErrNotFound = errors.New("blob not found")

// BlobStore is the persistence port for the history log.
// Implementations hold opaque text keyed by name.
type BlobStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Backend names accepted by Open
const (
	BackendMemory  = "memory"
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
)

// Open creates the named blob store backend. path is the file or database
// location for file and sqlite backends; empty means the XDG data default.
func Open(backend, path string) (BlobStore, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryBlobStore(), nil
	case BackendFile, "":
		return NewFileBlobStore(path)
	case BackendSQLite:
		return NewSQLiteBlobStore(path)
	case BackendKeyring:
		return OpenKeyringBlobStore()
	default:
		return nil, fmt.Errorf("unknown history backend: %s", backend)
	}
}

// MemoryBlobStore keeps blobs in process memory
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]string
}

// NewMemoryBlobStore creates an empty in-memory store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]string)}
}

func (m *MemoryBlobStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryBlobStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = value
	return nil
}

func (m *MemoryBlobStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}
