package storage

import (
	"context"
	"fmt"

	"github.com/weak-head/icon-convert/internal/logger"
)

// Storage is a bucket/object store.
type Storage interface {
	Store(ctx context.Context, bucket string, objectName string, objectBytes []byte, contentType string) error
	Retrieve(ctx context.Context, bucket string, objectName string) ([]byte, error)
	Remove(ctx context.Context, bucket string, objectName string) error
}

// New creates the storage backend selected by the config.
// The root is used only by the filesystem backend.
func New(conf StorageConfig, root string, log logger.Log) (Storage, error) {
	switch conf.Kind {
	case "", KindFS:
		return NewFSStorage(root, log)
	case KindMinio:
		return NewMinioStorage(conf, log)
	default:
		return nil, fmt.Errorf("unknown storage kind %q", conf.Kind)
	}
}
