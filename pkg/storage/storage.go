// Package storage abstracts file storage for product images behind a
// Disk interface with local-filesystem and S3-compatible drivers.
package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
)

// Disk is a file storage driver.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Delete(path string) error
	Size(path string) (int64, error)
	URL(path string) string
}

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager. Call once at application startup.
// The local disk is always available; the s3 disk is registered only
// when S3_BUCKET is configured.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDisk()
	disks["local"] = newLocalDisk()

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultDisk]; !ok {
		logger.Warn("storage: default disk not configured, falling back to local", "disk", defaultDisk)
		defaultDisk = "local"
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Default returns the disk selected by STORAGE_DISK.
func Default() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// RegisterDisk plugs in a custom Disk implementation (used by tests).
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}
