package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists opaque blobs (profile images) and returns a resolvable URL.
type Store interface {
	Put(key string, data []byte) (string, error)
}

// FileStore keeps blobs on the local filesystem under a single directory,
// serving them by URL prefix.
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes data under key and returns its URL. Keys are flattened to a
// single path segment so a crafted key cannot escape the blob directory.
func (f *FileStore) Put(key string, data []byte) (string, error) {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	if name == "" {
		return "", fmt.Errorf("empty blob key")
	}
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write blob %s: %w", name, err)
	}
	return f.baseURL + "/" + name, nil
}

// Dir returns the directory blobs are written to.
func (f *FileStore) Dir() string { return f.dir }
