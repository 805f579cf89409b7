package processor

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/google/uuid"

	api "github.com/weak-head/icon-convert/api/v1"
	"github.com/weak-head/icon-convert/internal/logger"
)

var (
	// ErrNoConverterProvided happens when converter is not provided.
	ErrNoConverterProvided = errors.New("no converter provided")

	// ErrNoStorageProvided happens when storage is not provided.
	ErrNoStorageProvided = errors.New("no storage provided")

	// ErrNoReporterProvided happens when reporter is not provided.
	ErrNoReporterProvided = errors.New("no reporter provided")

	// ErrNoPublisherProvided happens when publisher is not provided.
	ErrNoPublisherProvided = errors.New("no publisher provided")
)

const (
	contentTypePNG = "image/png"
)

// ConverterConfig
type ConverterConfig struct {
	// Compression is one of "default", "none", "speed" or "best".
	Compression string
}

// Converter is the interface that wraps the image codec.
//
// Decode parses the encoded image and returns it with its content type.
// Encode serializes the image in the target format.
type Converter interface {
	Decode(ctx context.Context, from []byte) (img image.Image, contentType string, err error)
	Encode(ctx context.Context, img image.Image) ([]byte, error)
}

// Storage
type Storage interface {
	Store(ctx context.Context, bucket string, objectName string, objectBytes []byte, contentType string) error
	Retrieve(ctx context.Context, bucket string, objectName string) ([]byte, error)
	Remove(ctx context.Context, bucket string, objectName string) error
}

// Reporter collects conversion metrics.
type Reporter interface {
	ConversionSucceeded(seconds float64)
	ConversionFailed(stage string)
}

// Publisher announces the outcome of a conversion.
type Publisher interface {
	Publish(ctx context.Context, result *api.ConversionResult) error
}

// processor is a wrapper over the converter that retrieves
// the source image from the storage, stores the converted image
// and removes the source once the converted image is in place.
type processor struct {
	converter Converter
	storage   Storage
	reporter  Reporter
	publisher Publisher

	log logger.Log
}

// NewProcessor creates a new image processor.
// It returns an error if the creation failed.
func NewProcessor(
	converter Converter,
	storage Storage,
	reporter Reporter,
	publisher Publisher,
	log logger.Log,
) (*processor, error) {
	if converter == nil {
		return nil, ErrNoConverterProvided
	}

	if storage == nil {
		return nil, ErrNoStorageProvided
	}

	if reporter == nil {
		return nil, ErrNoReporterProvided
	}

	if publisher == nil {
		return nil, ErrNoPublisherProvided
	}

	return &processor{
		converter: converter,
		storage:   storage,
		reporter:  reporter,
		publisher: publisher,
		log:       log.WithField(logger.FieldPackage, "processor"),
	}, nil
}

// Process converts the source image, stores it at the destination
// and then removes the source.
//
// The source is removed only if the converted image has been stored.
// A failure to remove the source leaves the converted image in place.
// Any failure is returned as *ConversionError.
func (p *processor) Process(ctx context.Context, source, destination *api.Location) (*api.ConversionResult, error) {
	started := time.Now()
	result := &api.ConversionResult{
		ConversionId: uuid.NewString(),
		Source:       source,
		Destination:  destination,
	}

	log := p.log.WithFields(logger.Fields{
		logger.FieldFunction: "processor.Process",
		"conversion":         result.ConversionId,
		"source":             source.String(),
		"destination":        destination.String(),
	})
	log.Info("Converting the image.")

	if err := p.convert(ctx, log, result); err != nil {
		result.Stage = string(err.Stage)
		result.Error = err.Error()
		result.FinishedAt = time.Now()

		p.reporter.ConversionFailed(string(err.Stage))
		p.publish(ctx, log, result)
		return nil, err
	}

	result.FinishedAt = time.Now()
	p.reporter.ConversionSucceeded(time.Since(started).Seconds())
	p.publish(ctx, log, result)

	log.Info("Image has been converted.")
	return result, nil
}

// convert runs the conversion steps in order and stops on the first failure.
func (p *processor) convert(ctx context.Context, log logger.Log, result *api.ConversionResult) *ConversionError {
	src, dst := result.Source, result.Destination
	fail := func(stage Stage, err error) *ConversionError {
		return &ConversionError{Stage: stage, Source: src, Destination: dst, Err: err}
	}

	srcBytes, err := p.storage.Retrieve(ctx, src.Bucket, src.ObjectName)
	if err != nil {
		log.Error(err, "Failed to retrieve the source image.")
		return fail(StageDecode, err)
	}

	img, contentType, err := p.converter.Decode(ctx, srcBytes)
	if err != nil {
		log.Error(err, "Failed to decode the source image.")
		return fail(StageDecode, err)
	}

	bounds := img.Bounds()
	result.SourceType = contentType
	result.Width, result.Height = bounds.Dx(), bounds.Dy()

	pngBytes, err := p.converter.Encode(ctx, img)
	if err != nil {
		log.Error(err, "Failed to encode the image.")
		return fail(StageWrite, err)
	}

	if err := p.storage.Store(ctx, dst.Bucket, dst.ObjectName, pngBytes, contentTypePNG); err != nil {
		log.Error(err, "Failed to store the converted image.")
		return fail(StageWrite, err)
	}

	if err := p.storage.Remove(ctx, src.Bucket, src.ObjectName); err != nil {
		log.WithField("error", err.Error()).Warn("Converted the image but failed to remove the source.")
		return fail(StageDelete, err)
	}
	result.Removed = true

	return nil
}

// publish announces the result. A failed announcement does not
// change the outcome of the conversion.
func (p *processor) publish(ctx context.Context, log logger.Log, result *api.ConversionResult) {
	if err := p.publisher.Publish(ctx, result); err != nil {
		log.Error(err, "Failed to publish the conversion result.")
	}
}
