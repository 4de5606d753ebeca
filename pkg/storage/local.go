package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/storefront/backend/config"
)

// localDisk stores objects under a root directory on the filesystem.
// Keys are slash-separated paths relative to the root.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk() (*localDisk, error) {
	root := config.StorageLocalRoot()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", root, err)
	}
	return &localDisk{
		root:    root,
		baseURL: strings.TrimRight(config.StorageURL(), "/"),
	}, nil
}

// resolve maps a key to a path under root, rejecting traversal outside it.
func (d *localDisk) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	full := filepath.Join(d.root, clean)
	if !strings.HasPrefix(full, filepath.Clean(d.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage/local: invalid key %q", key)
	}
	return full, nil
}

func (d *localDisk) Put(key string, content []byte) error {
	path, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir for %s: %w", key, err)
	}
	return os.WriteFile(path, content, 0o644)
}

func (d *localDisk) PutStream(key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("storage/local: read: %w", err)
	}
	return d.Put(key, data)
}

func (d *localDisk) Exists(key string) bool {
	path, err := d.resolve(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (d *localDisk) Delete(key string) error {
	path, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", key, err)
	}
	return nil
}

func (d *localDisk) URL(key string) string {
	return d.baseURL + "/" + strings.TrimLeft(key, "/")
}
