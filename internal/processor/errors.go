package processor

import (
	"errors"
	"fmt"

	api "github.com/weak-head/icon-convert/api/v1"
)

// Stage is the step of the conversion that has failed.
type Stage string

const (
	StageDecode Stage = "decode"
	StageWrite  Stage = "write"
	StageDelete Stage = "delete"
)

var (
	// ErrDecode matches failures to read or decode the source image.
	ErrDecode = errors.New("decode failed")

	// ErrWrite matches failures to encode or store the converted image.
	ErrWrite = errors.New("write failed")

	// ErrDelete matches failures to remove the source image
	// after the converted image has been stored.
	ErrDelete = errors.New("delete failed")
)

// ConversionError is returned by Process for any failed conversion.
// It matches the sentinel of its stage with errors.Is and unwraps
// to the underlying failure.
type ConversionError struct {
	Stage       Stage
	Source      *api.Location
	Destination *api.Location
	Err         error
}

func (e *ConversionError) Error() string {
	switch e.Stage {
	case StageDecode:
		return fmt.Sprintf("failed to decode %s: %v", e.Source, e.Err)
	case StageWrite:
		return fmt.Sprintf("failed to write %s: %v", e.Destination, e.Err)
	case StageDelete:
		return fmt.Sprintf("converted %s but failed to remove %s: %v", e.Destination, e.Source, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func (e *ConversionError) Is(target error) bool {
	switch e.Stage {
	case StageDecode:
		return target == ErrDecode
	case StageWrite:
		return target == ErrWrite
	case StageDelete:
		return target == ErrDelete
	}
	return false
}
