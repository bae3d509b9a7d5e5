package history

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// FileBlobStore keeps one file per key inside a directory
type FileBlobStore struct {
	dir string
}

// NewFileBlobStore creates a file-backed store rooted at dir.
// An empty dir resolves to the XDG data directory.
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if dir == "" {
		p, err := xdg.DataFile("ezquery/history.json")
		if err != nil {
			return nil, err
		}
		dir = filepath.Dir(p)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FileBlobStore{dir: dir}, nil
}

func (f *FileBlobStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileBlobStore) Get(key string) (string, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Set writes through a temp file so a crash never leaves a torn blob
func (f *FileBlobStore) Set(key, value string) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *FileBlobStore) Remove(key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
