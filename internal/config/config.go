package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/weak-head/icon-convert/internal/logger"
	"github.com/weak-head/icon-convert/internal/metrics"
	"github.com/weak-head/icon-convert/internal/processor"
	"github.com/weak-head/icon-convert/internal/storage"
	"github.com/weak-head/icon-convert/internal/stream"
)

const (
	// fileName is the name of the optional config file, without extension.
	fileName = "icon-convert"

	// envPrefix prefixes every environment variable, e.g. ICON_CONVERT_LOG_LEVEL.
	envPrefix = "ICON_CONVERT"
)

// ErrNoEndpointProvided happens when minio storage is selected without an endpoint.
var ErrNoEndpointProvided = errors.New("no storage endpoint provided")

// Config
type Config struct {
	Log       logger.Config
	Converter processor.ConverterConfig
	Storage   storage.StorageConfig
	Metrics   metrics.Config
	Events    stream.WriterConfig
}

// Load reads the config from the environment and from the optional
// config file in the given directory. The environment takes precedence.
func Load(dir string) (*Config, error) {
	v := viper.New()

	// The exact file name, so an extensionless "icon-convert"
	// (e.g. the built binary) is never taken for the config.
	path := filepath.Join(dir, fileName+".yaml")
	v.SetConfigFile(path)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate
func (c *Config) Validate() error {
	switch c.Storage.Kind {
	case storage.KindFS:
	case storage.KindMinio:
		if c.Storage.Endpoint == "" {
			return ErrNoEndpointProvided
		}
	default:
		return fmt.Errorf("unknown storage kind %q", c.Storage.Kind)
	}
	return nil
}

// setDefaults registers every key, so AutomaticEnv can resolve them on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("converter.compression", "default")

	v.SetDefault("storage.kind", storage.KindFS)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.createbucketifnotexist", false)

	v.SetDefault("metrics.pushgateway", "")
	v.SetDefault("metrics.job", "icon-convert")
	v.SetDefault("metrics.engine", "png")

	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "")
	v.SetDefault("events.balancer", "hash")
	v.SetDefault("events.createifnotexist", false)
	v.SetDefault("events.numpartitions", 1)
	v.SetDefault("events.replicationfactor", 1)
	v.SetDefault("events.retries", 3)
	v.SetDefault("events.backoff", 200*time.Millisecond)
}
