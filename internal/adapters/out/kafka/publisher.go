// Package kafka publishes relayed notifications to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/activity"
	"fulfillment/internal/core/ports"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	EventNotificationCreated = "notification.created"
	EventVersion             = 1

	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)

var _ ports.NotificationPublisher = (*Publisher)(nil)

// Envelope is the message value. Consumers deduplicate on EventID, which is the
// notification id, because a batch may be redelivered when the relay transaction fails
// after the write.
type Envelope struct {
	EventID      string              `json:"event_id"`
	EventType    string              `json:"event_type"`
	EventVersion int                 `json:"event_version"`
	OccurredAt   time.Time           `json:"occurred_at"`
	Producer     string              `json:"producer"`
	Payload      NotificationPayload `json:"payload"`
}

type NotificationPayload struct {
	Seq         int64  `json:"seq"`
	RecipientID string `json:"recipient_id"`
	OrderID     string `json:"order_id"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes notifications synchronously, keyed by order id so that the
// notifications of one order stay on one partition in sequence order.
type Publisher struct {
	writer   messageWriter
	producer string
	logger   *zap.Logger
}

func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

func NewPublisher(writer messageWriter, producer string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		writer:   writer,
		producer: producer,
		logger:   logger.With(zap.String("component", "notification_publisher")),
	}
}

// Publish writes all notifications in one call and returns once the brokers acknowledged
// them. On error nothing may be assumed about which messages were written.
func (p *Publisher) Publish(ctx context.Context, notifications []activity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	messages := make([]kafkago.Message, 0, len(notifications))
	for _, n := range notifications {
		msg, err := p.message(ctx, n)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("write %d notifications: %w", len(messages), err)
	}

	p.logger.Debug("notifications published",
		zap.Int("count", len(messages)),
		zap.Int64("first_seq", notifications[0].Seq),
		zap.Int64("last_seq", notifications[len(notifications)-1].Seq),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) message(ctx context.Context, n activity.Notification) (kafkago.Message, error) {
	value, err := json.Marshal(Envelope{
		EventID:      n.ID.String(),
		EventType:    EventNotificationCreated,
		EventVersion: EventVersion,
		OccurredAt:   n.CreatedAt,
		Producer:     p.producer,
		Payload: NotificationPayload{
			Seq:         n.Seq,
			RecipientID: n.RecipientID.String(),
			OrderID:     n.OrderID.String(),
			Kind:        n.Kind,
			Message:     n.Message,
		},
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encode notification %s: %w", n.ID, err)
	}

	headers := []kafkago.Header{
		{Key: HeaderEventType, Value: []byte(EventNotificationCreated)},
		{Key: HeaderEventVersion, Value: []byte(fmt.Sprint(EventVersion))},
	}
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(&headers))

	return kafkago.Message{
		Key:     []byte(n.OrderID.String()),
		Value:   value,
		Time:    n.CreatedAt,
		Headers: headers,
	}, nil
}

// headerCarrier adapts Kafka headers to propagation.TextMapCarrier.
type headerCarrier []kafkago.Header

func (c *headerCarrier) Get(key string) string {
	for _, h := range *c {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i, h := range *c {
		if h.Key == key {
			(*c)[i].Value = []byte(value)
			return
		}
	}
	*c = append(*c, kafkago.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, h.Key)
	}
	return keys
}
