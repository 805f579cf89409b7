package stream

import (
	"errors"
	"net"
	"strconv"

	kafka "github.com/segmentio/kafka-go"
)

// ErrNoBrokersProvided happens when the writer config has no brokers.
var ErrNoBrokersProvided = errors.New("no kafka brokers provided")

// NewWriter creates a kafka writer for the conversion events topic,
// creating the topic first if the config asks for it.
func NewWriter(config WriterConfig) (*kafka.Writer, error) {
	if len(config.Brokers) == 0 {
		return nil, ErrNoBrokersProvided
	}

	if err := createTopic(config.Brokers[0], config.TopicConfig); err != nil {
		return nil, err
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     createBalancer(config.Balancer),
		RequiredAcks: kafka.RequireOne,
	}, nil
}

// createTopic
func createTopic(addr string, config TopicConfig) error {
	if !config.CreateIfNotExist {
		return nil
	}

	conn, err := kafka.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Topics can only be created through the controller
	controller, err := conn.Controller()
	if err != nil {
		return err
	}

	controllerConn, err := kafka.Dial(
		"tcp",
		net.JoinHostPort(
			controller.Host,
			strconv.Itoa(controller.Port),
		),
	)
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             config.Topic,
		NumPartitions:     config.NumPartitions,
		ReplicationFactor: config.ReplicationFactor,
	})
}

// createBalancer
func createBalancer(balancer string) kafka.Balancer {
	switch balancer {

	case "roundrobin":
		return &kafka.RoundRobin{}

	// FNV-1a, keeps the events of one conversion on one partition
	case "hash":
		return &kafka.Hash{}

	case "crc32":
		return &kafka.CRC32Balancer{}

	case "murmur2":
		return &kafka.Murmur2Balancer{}

	default:
		return &kafka.LeastBytes{}
	}
}
