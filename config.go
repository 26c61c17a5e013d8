package streamtail

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/coder/quartz"
)

var (
	ErrInvalidConfiguration = errors.New("invalid streamtail config")
)

// Config contains the settings a Tailer runs with
type Config struct {
	// required fields
	StreamName    string
	KinesisClient KinesisAPI

	// optional fields
	Logger        *slog.Logger
	RecordHandler RecordHandler
	Clock         quartz.Clock
}

type Option func(*Config)

func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Logger:        slog.Default(),
		RecordHandler: PrintRecords(os.Stdout),
		Clock:         quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func WithStreamName(name string) Option {
	return func(c *Config) {
		c.StreamName = name
	}
}

func WithKinesisClient(client KinesisAPI) Option {
	return func(c *Config) {
		c.KinesisClient = client
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func WithRecordHandler(h RecordHandler) Option {
	return func(c *Config) {
		c.RecordHandler = h
	}
}

func WithClock(clock quartz.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

func (c *Config) Validate() error {
	if c.StreamName == "" {
		return fmt.Errorf("stream name must be present: %w", ErrInvalidConfiguration)
	}
	if c.KinesisClient == nil {
		return fmt.Errorf("kinesis client must be present: %w", ErrInvalidConfiguration)
	}
	if c.RecordHandler == nil {
		return fmt.Errorf("record handler must be present: %w", ErrInvalidConfiguration)
	}
	return nil
}
