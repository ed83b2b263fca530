package kafka

import (
	"context"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
)

type Publisher interface {
	PublishRecordCreated(ctx context.Context, topic string, ev domain.RecordCreated) error
}

// Relay moves outbox rows to Kafka. A row is marked published only after the write
// succeeded, so a crash in between publishes it again.
type Relay struct {
	outbox    repository.OutboxRepo
	pub       Publisher
	topics    map[string]string
	batchSize int
}

func NewRelay(outbox repository.OutboxRepo, pub Publisher, topics map[string]string, batchSize int) *Relay {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Relay{outbox: outbox, pub: pub, topics: topics, batchSize: batchSize}
}

// Run publishes one batch and returns how many rows were handled. It stops at the
// first publish failure to keep per-record order.
func (r *Relay) Run(ctx context.Context) (int, error) {
	records, err := r.outbox.ListPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, rec := range records {
		topic, ok := r.topics[rec.Event.Collection]
		if !ok {
			logger.Warn("outbox: no topic for collection, dropping", "collection", rec.Event.Collection, "id", rec.ID)
		} else if err := r.pub.PublishRecordCreated(ctx, topic, rec.Event); err != nil {
			return done, err
		}
		if err := r.outbox.MarkPublished(ctx, rec.ID); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

func StartRelay(ctx context.Context, interval time.Duration, r *Relay) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Run(ctx)
			if err != nil && ctx.Err() == nil {
				logger.Warn("outbox relay error", "err", err)
			}
			if n > 0 {
				logger.Info("outbox relayed", "count", n)
			}
		}
	}
}
