package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/notify"
	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"
)

var errInvalidMessage = errors.New("invalid record-created message")

type ConsumerConfig struct {
	Brokers     string
	Topic       string
	GroupID     string
	MaxAttempts int
}

type retryPolicy struct {
	maxTries   uint
	newBackOff func() backoff.BackOff
}

func defaultRetryPolicy(maxAttempts int) retryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return retryPolicy{
		maxTries: uint(maxAttempts),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 300 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			return b
		},
	}
}

func StartConsumer(ctx context.Context, h notify.Handler, cfg ConsumerConfig) (*kafka.Reader, error) {
	brokers := strings.Split(cfg.Brokers, ",")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         brokers,
		GroupID:         cfg.GroupID,
		Topic:           cfg.Topic,
		MinBytes:        1,
		MaxBytes:        10e6,
		CommitInterval:  0,
		StartOffset:     kafka.FirstOffset,
		ReadLagInterval: -1,
	})

	logger.Info("kafka consumer starting", "brokers", cfg.Brokers, "topic", cfg.Topic, "group", cfg.GroupID)
	policy := defaultRetryPolicy(cfg.MaxAttempts)

	go func() {
		defer r.Close()

		pause := time.Millisecond * 300
		for {
			m, err := r.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("kafka fetch error", "err", err)
				time.Sleep(pause)
				continue
			}

			err = process(ctx, h, m, policy)
			if ctx.Err() != nil {
				// not committed, the group hands it out again after restart
				return
			}
			if err != nil {
				logger.Warn("record-created event dropped", "topic", m.Topic, "offset", m.Offset, "err", err)
			}

			if err := r.CommitMessages(ctx, m); err != nil {
				logger.Warn("[kafka] commit failed", "err", err)
			}
		}
	}()
	return r, nil
}

// process decodes one message and hands it to the handler, retrying while the handler
// reports a transient failure. The returned error is final.
func process(ctx context.Context, h notify.Handler, m kafka.Message, policy retryPolicy) error {
	var ev domain.RecordCreated
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return fmt.Errorf("%w: %v", errInvalidMessage, err)
	}
	if ev.Collection == "" {
		return fmt.Errorf("%w: no collection", errInvalidMessage)
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := h.Handle(ctx, ev)
		if err == nil {
			return struct{}{}, nil
		}
		if !notify.IsTransient(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		logger.Warn("record-created handler failed, retrying", "collection", ev.Collection, "id", ev.RecordID, "attempt", attempt, "err", err)
		return struct{}{}, err
	}, backoff.WithBackOff(policy.newBackOff()), backoff.WithMaxTries(policy.maxTries))
	return err
}
