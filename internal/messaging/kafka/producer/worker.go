package producer

import (
	"context"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const drainBatchSize = 50

// Dispatcher drains the leave outbox to kafka. Rows stay pending until
// the broker acknowledges the write, so a crash between the database
// commit and the publish replays the event instead of losing it.
type Dispatcher struct {
	repo   kafka.OutboxRepository
	writer *kafkago.Writer
	logger *zap.Logger
}

func NewDispatcher(repo kafka.OutboxRepository, writer *kafkago.Writer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, writer: writer, logger: logger.Named("leave.dispatcher")}
}

// Run polls the outbox until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, pollInterval time.Duration) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	d.logger.Info("leave event dispatcher started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("leave event dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.drainOnce(ctx); err != nil {
				d.logger.Error("drain leave outbox failed", zap.Error(err))
			}
		}
	}
}

func (d *Dispatcher) drainOnce(ctx context.Context) error {
	events, err := d.repo.ListPending(ctx, drainBatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	d.logger.Debug("draining leave outbox", zap.Int("events", len(events)))

	for _, event := range events {
		if err := publish(ctx, d.writer, event); err != nil {
			d.logger.Error("publish leave event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			_ = d.repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := d.repo.MarkSent(ctx, event.ID); err != nil {
			// The event went out but the row stays pending, so the next
			// drain republishes it. Consumers dedupe on the outbox id.
			d.logger.Error("mark leave event sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		d.logger.Info("leave event published",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("application_id", event.AggregateID),
		)
	}

	return nil
}
