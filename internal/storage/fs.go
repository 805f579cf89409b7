package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/weak-head/icon-convert/internal/logger"
)

const (
	// objectFileMode is the permission of the stored objects.
	objectFileMode = 0644
)

// fsStorage keeps objects as files under the root directory,
// with every bucket being a sub-directory of the root.
type fsStorage struct {
	root string

	log logger.Log
}

// NewFSStorage creates a filesystem storage rooted at the given directory.
func NewFSStorage(root string, log logger.Log) (*fsStorage, error) {
	if root == "" {
		root = "."
	}

	return &fsStorage{
		root: root,
		log: log.WithFields(logger.Fields{
			logger.FieldPackage: "storage",
			"root":              root,
		}),
	}, nil
}

// Store writes the object to a temporary file next to the destination
// and renames it into place, replacing any existing object.
// The bucket directory must exist.
func (f *fsStorage) Store(
	ctx context.Context,
	bucket string,
	objectName string,
	objectBytes []byte,
	contentType string,
) error {
	log := f.log.WithFields(logger.Fields{
		logger.FieldFunction: "fsStorage.Store",
		"bucket":             bucket,
		"objectName":         objectName,
	})

	dir := filepath.Join(f.root, bucket)
	tmp, err := os.CreateTemp(dir, "."+objectName+".*.tmp")
	if err != nil {
		log.WithField("error", err.Error()).Debug("Failed to create a temporary file.")
		return err
	}

	if err := f.writeAndRename(tmp, objectBytes, f.path(bucket, objectName)); err != nil {
		os.Remove(tmp.Name())
		log.WithField("error", err.Error()).Debug("Failed to store the object.")
		return err
	}

	log.Debug("Stored the object.")
	return nil
}

// Retrieve reads the whole object.
func (f *fsStorage) Retrieve(
	ctx context.Context,
	bucket string,
	objectName string,
) ([]byte, error) {
	log := f.log.WithFields(logger.Fields{
		logger.FieldFunction: "fsStorage.Retrieve",
		"bucket":             bucket,
		"objectName":         objectName,
	})

	data, err := os.ReadFile(f.path(bucket, objectName))
	if err != nil {
		log.WithField("error", err.Error()).Debug("Failed to read the object.")
		return nil, err
	}

	log.Debug("Retrieved the object.")
	return data, nil
}

// Remove deletes the object.
func (f *fsStorage) Remove(
	ctx context.Context,
	bucket string,
	objectName string,
) error {
	log := f.log.WithFields(logger.Fields{
		logger.FieldFunction: "fsStorage.Remove",
		"bucket":             bucket,
		"objectName":         objectName,
	})

	if err := os.Remove(f.path(bucket, objectName)); err != nil {
		log.WithField("error", err.Error()).Debug("Failed to remove the object.")
		return err
	}

	log.Debug("Removed the object.")
	return nil
}

func (f *fsStorage) path(bucket, objectName string) string {
	return filepath.Join(f.root, bucket, objectName)
}

// writeAndRename fills and closes the temporary file, then moves it to dst.
func (f *fsStorage) writeAndRename(tmp *os.File, data []byte, dst string) error {
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Chmod(objectFileMode); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dst)
}
