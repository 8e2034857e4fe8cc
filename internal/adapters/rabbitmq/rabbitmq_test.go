package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	level  string
	msg    string
	fields port.Fields
}

type recordingLogger struct {
	mu      *sync.Mutex
	records *[]record
	fields  port.Fields
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, records: &[]record{}, fields: port.Fields{}}
}

func (l *recordingLogger) add(level, msg string, fields port.Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	merged := port.Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	*l.records = append(*l.records, record{level: level, msg: msg, fields: merged})
}

func (l *recordingLogger) Info(msg string, fields port.Fields) { l.add("info", msg, fields) }

func (l *recordingLogger) Warn(msg string, fields port.Fields) { l.add("warn", msg, fields) }

func (l *recordingLogger) Error(msg string, err error, fields port.Fields) {
	l.add("error", msg, fields)
}

func (l *recordingLogger) Debug(msg string, fields port.Fields) { l.add("debug", msg, fields) }

func (l *recordingLogger) WithFields(fields port.Fields) port.LoggerPort {
	child := &recordingLogger{mu: l.mu, records: l.records, fields: port.Fields{}}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

type fakeProducer struct {
	routingKey string
	msg        amqp.Publishing
	deadline   bool
	err        error
}

func (p *fakeProducer) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.routingKey = routingKey
	p.msg = msg
	_, p.deadline = ctx.Deadline()
	return p.err
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeNotifier struct {
	leads []*domain.Lead
	err   error
}

func (n *fakeNotifier) Execute(ctx context.Context, lead *domain.Lead) error {
	n.leads = append(n.leads, lead)
	return n.err
}

func testLead() *domain.Lead {
	return &domain.Lead{
		ID:          uuid.New(),
		FormKind:    domain.FormKindPropertyInquiry,
		PropertyID:  "P-001",
		InquiryType: "内見希望",
		Name:        "佐藤",
		Email:       "sato@example.jp",
		Message:     "週末希望",
		CreatedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPkgLoggerBridge(t *testing.T) {
	logger := newRecordingLogger()
	bridge := NewPkgLoggerBridge(logger)

	bridge.Info("connected", "url", "amqp://x", 42, "ignored", "dangling")
	bridge.Error(errors.New("boom"), "failed", "queue", "q1")

	require.Len(t, *logger.records, 2)
	assert.Equal(t, port.Fields{"url": "amqp://x"}, (*logger.records)[0].fields)
	assert.Equal(t, "error", (*logger.records)[1].level)
	assert.Equal(t, "q1", (*logger.records)[1].fields["queue"])
}

func TestLeadEventsPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	now := time.Date(2024, 6, 1, 12, 0, 5, 0, time.UTC)
	pub, err := NewLeadEventsPublisher(producer, constants.RoutingKeyLeadSubmitted, fixedClock{now})
	require.NoError(t, err)

	lead := testLead()
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	require.NoError(t, pub.PublishLeadSubmitted(ctx, lead))

	assert.Equal(t, constants.RoutingKeyLeadSubmitted, producer.routingKey)
	assert.True(t, producer.deadline)
	assert.Equal(t, amqp.Persistent, producer.msg.DeliveryMode)
	assert.Equal(t, "application/json", producer.msg.ContentType)
	assert.Equal(t, constants.LeadSubmittedEventType, producer.msg.Headers["event-type"])
	assert.Equal(t, constants.LeadSubmittedEventVersion, producer.msg.Headers["event-version"])
	assert.Equal(t, "trace-1", producer.msg.Headers["x-trace-id"])

	var event LeadSubmittedEventDTO
	require.NoError(t, json.Unmarshal(producer.msg.Body, &event))
	assert.Equal(t, lead.ID, event.Lead.ID)
	assert.True(t, now.Equal(event.SubmittedAt))
}

func TestLeadEventsPublisher_RejectsInvalidLead(t *testing.T) {
	producer := &fakeProducer{}
	pub, err := NewLeadEventsPublisher(producer, constants.RoutingKeyLeadSubmitted, nil)
	require.NoError(t, err)

	lead := testLead()
	lead.Email = "not-an-email"
	assert.Error(t, pub.PublishLeadSubmitted(context.Background(), lead))
	assert.Empty(t, producer.routingKey, "nothing published")
}

func TestLeadEventsPublisher_ProducerError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("channel closed")}
	pub, err := NewLeadEventsPublisher(producer, constants.RoutingKeyLeadSubmitted, nil)
	require.NoError(t, err)

	assert.Error(t, pub.PublishLeadSubmitted(context.Background(), testLead()))
}

func TestNewLeadEventsPublisher_Validation(t *testing.T) {
	_, err := NewLeadEventsPublisher(nil, "key", nil)
	assert.Error(t, err)
	_, err = NewLeadEventsPublisher(&fakeProducer{}, "", nil)
	assert.Error(t, err)
}

func delivery(t *testing.T, lead *domain.Lead, headers amqp.Table) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(LeadSubmittedEventDTO{SubmittedAt: time.Now().UTC(), Lead: lead})
	require.NoError(t, err)
	return amqp.Delivery{Body: body, Headers: headers, DeliveryTag: 7}
}

func eventHeaders() amqp.Table {
	return amqp.Table{
		"event-type":    constants.LeadSubmittedEventType,
		"event-version": constants.LeadSubmittedEventVersion,
		"x-trace-id":    "trace-9",
	}
}

func TestMessageHandler_SendsNotifications(t *testing.T) {
	notifier := &fakeNotifier{}
	logger := newRecordingLogger()
	adapter := &LeadNotificationsConsumerAdapter{notifyUC: notifier, logger: logger}

	lead := testLead()
	require.NoError(t, adapter.messageHandler(delivery(t, lead, eventHeaders())))

	require.Len(t, notifier.leads, 1)
	assert.Equal(t, lead.ID, notifier.leads[0].ID)
}

func TestMessageHandler_RetriesOnFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	adapter := &LeadNotificationsConsumerAdapter{notifyUC: notifier, logger: newRecordingLogger()}

	assert.Error(t, adapter.messageHandler(delivery(t, testLead(), eventHeaders())))
}

func TestMessageHandler_DropsInvalidMessages(t *testing.T) {
	notifier := &fakeNotifier{}
	logger := newRecordingLogger()
	adapter := &LeadNotificationsConsumerAdapter{notifyUC: notifier, logger: logger}

	missingHeaders := delivery(t, testLead(), amqp.Table{"x-trace-id": "trace-9"})
	assert.NoError(t, adapter.messageHandler(missingHeaders))

	garbage := amqp.Delivery{Body: []byte("{"), Headers: eventHeaders()}
	assert.NoError(t, adapter.messageHandler(garbage))

	assert.Empty(t, notifier.leads)
	for _, r := range *logger.records {
		assert.Equal(t, "error", r.level)
		assert.Equal(t, "trace-9", r.fields["trace_id"], "trace id propagated from headers")
	}
}
