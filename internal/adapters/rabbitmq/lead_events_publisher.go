package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/contracts"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// Publisher is satisfied by *rabbitmq_producer.Publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// LeadEventsPublisher hands accepted leads to the notification worker.
type LeadEventsPublisher struct {
	producer   Publisher
	routingKey string
	clock      port.Clock
}

var _ port.LeadEventPublisherPort = (*LeadEventsPublisher)(nil)

func NewLeadEventsPublisher(producer Publisher, routingKey string, clock port.Clock) (*LeadEventsPublisher, error) {
	if producer == nil {
		return nil, errors.New("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, errors.New("routingKey cannot be empty")
	}
	if clock == nil {
		clock = port.SystemClock{}
	}
	return &LeadEventsPublisher{producer: producer, routingKey: routingKey, clock: clock}, nil
}

func (a *LeadEventsPublisher) PublishLeadSubmitted(ctx context.Context, lead *domain.Lead) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "LeadEventsPublisher",
		"routing_key": a.routingKey,
		"lead_id":     lead.ID.String(),
	})

	now := a.clock.Now()
	body, err := json.Marshal(LeadSubmittedEventDTO{SubmittedAt: now.UTC(), Lead: lead})
	if err != nil {
		logger.Error("Failed to marshal lead event", err, nil)
		return fmt.Errorf("failed to marshal lead %s: %w", lead.ID, err)
	}
	// never put a message on the bus the consumer would reject
	if err := contracts.ValidateEvent(constants.LeadSubmittedEventType, constants.LeadSubmittedEventVersion, body); err != nil {
		logger.Error("Lead event does not match its schema", err, nil)
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		MessageId:    lead.ID.String(),
		Headers: amqp.Table{
			"event-type":    constants.LeadSubmittedEventType,
			"event-version": constants.LeadSubmittedEventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish lead event", err, nil)
		return err
	}

	logger.Info("Lead event published", port.Fields{"form_kind": string(lead.FormKind)})
	return nil
}
