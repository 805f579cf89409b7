// Package v1 holds the data exchanged between the converter,
// the storage backends and the conversion event stream.
package v1

import (
	"path"
	"time"
)

// Location_Kind identifies the storage backend that holds an object.
type Location_Kind string

const (
	Location_FS    Location_Kind = "fs"
	Location_MINIO Location_Kind = "minio"
)

// Location addresses a single object in a storage backend.
// For the filesystem backend the bucket is a directory.
type Location struct {
	Kind       Location_Kind `json:"kind"`
	Bucket     string        `json:"bucket"`
	ObjectName string        `json:"object_name"`
}

// String returns the bucket-relative path of the object.
func (l *Location) String() string {
	return path.Join(l.Bucket, l.ObjectName)
}

// ConversionResult describes the outcome of a single conversion.
type ConversionResult struct {
	ConversionId string `json:"conversion_id"`

	Source      *Location `json:"source"`
	Destination *Location `json:"destination"`

	SourceType string `json:"source_type,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`

	// Removed is set once the source object has been deleted.
	Removed bool `json:"removed"`

	Stage string `json:"stage,omitempty"`
	Error string `json:"error,omitempty"`

	FinishedAt time.Time `json:"finished_at"`
}
