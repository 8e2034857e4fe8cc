package fluentlogger

import (
	"errors"
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

type Config struct {
	Host string
	Port int
	// TagPrefix is prepended to every tag, usually the service name.
	TagPrefix string
	// Async buffers records so a slow collector never blocks a request.
	Async   bool
	Timeout time.Duration
}

func (c Config) fluentConfig() (fluent.Config, error) {
	if c.TagPrefix == "" {
		return fluent.Config{}, errors.New("fluent tag prefix is required")
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 24224
	}
	if c.Timeout <= 0 {
		c.Timeout = 3 * time.Second
	}
	return fluent.Config{
		FluentHost: c.Host,
		FluentPort: c.Port,
		TagPrefix:  c.TagPrefix,
		Async:      c.Async,
		Timeout:    c.Timeout,
	}, nil
}

// NewClient creates a Fluent Bit client. There is no handshake; connection problems surface on
// the first post.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	fc, err := cfg.fluentConfig()
	if err != nil {
		return nil, err
	}
	client, err := fluent.New(fc)
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent logger: %w", err)
	}
	return client, nil
}
