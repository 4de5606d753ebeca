// Package storage abstracts where uploaded product images live.
//
// Two drivers: "s3" (AWS S3 or any S3-compatible host: MinIO, R2, Spaces)
// and "local" (filesystem, for development). The driver is selected by the
// STORAGE_DISK config key. Keys double as the image public_id the API hands
// back to clients.
package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/storefront/backend/config"
)

// Disk is the minimal object-store surface the upload workflow needs.
type Disk interface {
	Put(key string, content []byte) error
	PutStream(key string, r io.Reader) error
	Exists(key string) bool
	Delete(key string) error
	URL(key string) string
}

var (
	mu    sync.Mutex
	disks = map[string]Disk{}
)

// Default returns the disk selected by STORAGE_DISK.
func Default() (Disk, error) {
	return Get(config.StorageDefault())
}

// Get returns (and lazily constructs) the named disk.
func Get(name string) (Disk, error) {
	mu.Lock()
	defer mu.Unlock()

	if d, ok := disks[name]; ok {
		return d, nil
	}

	var (
		d   Disk
		err error
	)
	switch name {
	case "s3":
		d, err = newS3Disk()
	case "local":
		d, err = newLocalDisk()
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", name)
	}
	if err != nil {
		return nil, err
	}

	disks[name] = d
	return d, nil
}
