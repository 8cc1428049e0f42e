package producer

import (
	"context"

	"github.com/dashpratyush277/hrms-1/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publish writes one lifecycle event keyed by the application id, so
// every event for the same leave application lands on one partition in
// order.
func publish(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "aggregate_type", Value: []byte(event.AggregateType)},
	}
	if event.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(event.RequestID)})
	}

	return writer.WriteMessages(ctx, kafkago.Message{
		Topic:   event.Topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	})
}
