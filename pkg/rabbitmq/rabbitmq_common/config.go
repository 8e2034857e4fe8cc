package rabbitmq_common

import (
	"errors"
	"net/url"
)

// Config is the connection part shared by publishers and consumers.
type Config struct {
	URL string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("rabbitmq url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return errors.New("rabbitmq url must use the amqp or amqps scheme")
	}
	return nil
}
