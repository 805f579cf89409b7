package stream

import (
	"context"
	"encoding/json"
	"errors"

	kafka "github.com/segmentio/kafka-go"

	api "github.com/weak-head/icon-convert/api/v1"
	"github.com/weak-head/icon-convert/internal/logger"
)

const (
	// defaultRetries is used when the config does not set the number of write attempts.
	defaultRetries = 3
)

var (
	// ErrNoWriterProvided happens when writer is not provided.
	ErrNoWriterProvided = errors.New("no writer provided")

	// ErrNoSleeperProvided happens when sleeper is not provided.
	ErrNoSleeperProvided = errors.New("no sleeper provided")
)

// Writer is an atomic message writer.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Sleeper is a routine sleeper with some sleeping strategy
// and ability to reset the strategy state.
type Sleeper interface {
	Sleep(ctx context.Context) error
	Reset()
}

// publisher writes conversion results to a kafka topic.
type publisher struct {
	writer  Writer
	sleeper Sleeper
	retries int

	log logger.Log
}

// NewPublisher creates a conversion events publisher.
func NewPublisher(writer Writer, sleeper Sleeper, retries int, log logger.Log) (*publisher, error) {
	if writer == nil {
		return nil, ErrNoWriterProvided
	}

	if sleeper == nil {
		return nil, ErrNoSleeperProvided
	}

	if retries <= 0 {
		retries = defaultRetries
	}

	return &publisher{
		writer:  writer,
		sleeper: sleeper,
		retries: retries,
		log:     log.WithField(logger.FieldPackage, "stream"),
	}, nil
}

// Publish writes the result keyed by the conversion id.
// A failed write is retried with backoff up to the configured number of attempts.
func (p *publisher) Publish(ctx context.Context, result *api.ConversionResult) error {
	log := p.log.WithFields(logger.Fields{
		logger.FieldFunction: "publisher.Publish",
		"conversion":         result.ConversionId,
	})

	value, err := json.Marshal(result)
	if err != nil {
		log.Error(err, "Failed to marshal the conversion result.")
		return err
	}

	msg := kafka.Message{
		Key:   []byte(result.ConversionId),
		Value: value,
	}

	defer p.sleeper.Reset()
	for attempt := 1; ; attempt++ {
		err := p.writer.WriteMessages(ctx, msg)
		if err == nil {
			log.Info("Published the conversion result.")
			return nil
		}

		log.Error(err, "Failed to write the message to the kafka writer.")
		if attempt >= p.retries {
			log.Errorf(err,
				"Giving up writing the message after %d consecutive failed writes.",
				p.retries)
			return err
		}

		if err := p.sleeper.Sleep(ctx); err != nil {
			return err
		}
	}
}

// nopPublisher drops every result.
type nopPublisher struct{}

// NewNopPublisher creates a publisher for when no event stream is configured.
func NewNopPublisher() *nopPublisher {
	return &nopPublisher{}
}

// Publish
func (nopPublisher) Publish(ctx context.Context, result *api.ConversionResult) error {
	return nil
}
