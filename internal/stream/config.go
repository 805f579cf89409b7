package stream

import "time"

// TopicConfig
type TopicConfig struct {
	Topic             string
	CreateIfNotExist  bool
	NumPartitions     int
	ReplicationFactor int
}

// WriterConfig
type WriterConfig struct {
	TopicConfig `mapstructure:",squash"`

	// Brokers is the list of kafka brokers.
	// Conversion events are not published when it is empty.
	Brokers  []string
	Balancer string

	// Retries is the number of attempts to write an event before giving up.
	Retries int
	Backoff time.Duration
}

// Enabled reports whether the events should be published.
func (c WriterConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Topic != ""
}
