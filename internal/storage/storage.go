// Package storage writes exports to an object store.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
)

// Object is a complete upload. Metadata keys are stored as user metadata
// on both backends.
type Object struct {
	Key                string
	Body               []byte
	ContentType        string
	ContentDisposition string
	Metadata           map[string]string
}

// ObjectStorage is the write side the exporter needs.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, obj Object) error
}

// Open builds the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "minio":
		backend, err := newMinioBackend(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case "gcs":
		backend, err := newGCSBackend(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
