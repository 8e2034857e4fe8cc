package rabbitmq_consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arch-mania/takanekaitori-prod/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. The consumer acks on nil and applies the retry
// policy on error.
type MessageHandler func(delivery amqp.Delivery) error

// DistributingConsumer handles every delivery in its own goroutine, bounded by the prefetch count.
type DistributingConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
}

func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, errors.New("distributing consumer: message handler is required")
	}
	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing consumer: %w", err)
	}
	return &DistributingConsumer{baseConsumer: bc, handler: handler}, nil
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDiscard
	outcomeRetry
	outcomeDeadLetter
)

// decide maps a handler result to what happens with the delivery.
func decide(handlerErr error, retryEnabled bool, deaths int64, maxRetries int) outcome {
	switch {
	case handlerErr == nil:
		return outcomeAck
	case !retryEnabled:
		return outcomeDiscard
	case deaths < int64(maxRetries):
		return outcomeRetry
	default:
		return outcomeDeadLetter
	}
}

// StartConsuming blocks until ctx is cancelled or the connection drops.
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	bc := c.baseConsumer
	if bc.channel == nil || bc.connection == nil || bc.connection.IsClosed() {
		return errors.New("distributing consumer: not connected")
	}

	msgs, err := bc.channel.Consume(
		bc.actualQueueName,
		bc.config.ConsumerTag,
		false, // auto-ack
		bc.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("distributing consumer: failed to consume from '%s': %w", bc.actualQueueName, err)
	}
	bc.Logger.Info("Waiting for messages", "queue", bc.actualQueueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					bc.Logger.Info("Deliveries channel closed", "consumer_tag", bc.config.ConsumerTag)
					return
				}
				if ctx.Err() != nil {
					// unacked deliveries are redelivered once the channel closes
					return
				}
				bc.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer bc.wg.Done()
					c.process(delivery)
				}(d)
			}
		}
	}()

	notifyClose := bc.connection.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		bc.Logger.Info("Context cancelled, stopping consumer", "consumer_tag", bc.config.ConsumerTag)
		return nil
	case amqpErr := <-notifyClose:
		err := errors.New("distributing consumer: connection closed")
		if amqpErr != nil {
			err = fmt.Errorf("distributing consumer: connection closed: %w", amqpErr)
		}
		bc.Logger.Error(err, "Connection closed", "consumer_tag", bc.config.ConsumerTag)
		return err
	}
}

func (c *DistributingConsumer) process(delivery amqp.Delivery) {
	bc := c.baseConsumer
	handlerErr := c.handler(delivery)
	deaths := deathCount(delivery.Headers, bc.actualQueueName)

	switch decide(handlerErr, bc.config.EnableRetryMechanism, deaths, bc.config.MaxRetries) {
	case outcomeAck:
		_ = delivery.Ack(false)
	case outcomeDiscard:
		bc.Logger.Error(handlerErr, "Handler failed, discarding message", "delivery_tag", delivery.DeliveryTag)
		_ = delivery.Nack(false, false)
	case outcomeRetry:
		bc.Logger.Warn("Handler failed, scheduling retry", "delivery_tag", delivery.DeliveryTag, "death_count", deaths, "error", handlerErr.Error())
		_ = delivery.Nack(false, false)
	case outcomeDeadLetter:
		bc.Logger.Error(handlerErr, "Max retries reached, moving message to final DLQ", "delivery_tag", delivery.DeliveryTag)
		err := bc.finalDlxPublisher.Publish(context.Background(), bc.config.FinalDLQRoutingKey, amqp.Publishing{
			ContentType:  delivery.ContentType,
			Body:         delivery.Body,
			Headers:      delivery.Headers,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		})
		if err != nil {
			bc.Logger.Error(err, "Failed to publish to final DLX, retrying again", "delivery_tag", delivery.DeliveryTag)
			_ = delivery.Nack(false, false)
			return
		}
		_ = delivery.Ack(false)
	}
}

func (c *DistributingConsumer) Close() error {
	return c.baseConsumer.Close()
}
