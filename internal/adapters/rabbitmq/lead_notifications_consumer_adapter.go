package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/contracts"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port/usecases_port"
	"github.com/arch-mania/takanekaitori-prod/pkg/rabbitmq/rabbitmq_common"
	"github.com/arch-mania/takanekaitori-prod/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadNotificationsConsumerAdapter sends the emails of leads queued by the web handlers.
type LeadNotificationsConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	notifyUC usecases_port.SendLeadNotificationsUseCase
	logger   port.LoggerPort
}

var _ port.EventListenerPort = (*LeadNotificationsConsumerAdapter)(nil)

func NewLeadNotificationsConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	notifyUC usecases_port.SendLeadNotificationsUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*LeadNotificationsConsumerAdapter, error) {
	adapter := &LeadNotificationsConsumerAdapter{notifyUC: notifyUC, logger: logger}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_distributing_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for lead notifications: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

func (a *LeadNotificationsConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *LeadNotificationsConsumerAdapter) Close() error {
	return a.consumer.Close()
}

// errPoisonMessage marks deliveries that can never succeed.
var errPoisonMessage = errors.New("poison message")

func (a *LeadNotificationsConsumerAdapter) messageHandler(d amqp.Delivery) error {
	traceID, _ := d.Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	ctx := contextkeys.ContextWithTraceID(context.Background(), traceID)
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)

	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation, dropping", err, nil)
		return nil
	}

	var event LeadSubmittedEventDTO
	if err := json.Unmarshal(d.Body, &event); err != nil || event.Lead == nil {
		msgLogger.Error("Cannot decode lead event, dropping", fmt.Errorf("%w: %v", errPoisonMessage, err), nil)
		return nil
	}

	leadLogger := msgLogger.WithFields(port.Fields{"lead_id": event.Lead.ID.String()})
	ctx = contextkeys.ContextWithLogger(ctx, leadLogger)

	if err := a.notifyUC.Execute(ctx, event.Lead); err != nil {
		leadLogger.Error("Sending lead notifications failed", err, nil)
		return err
	}
	return nil
}
