package kafka

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	w messageWriter
}

// NewProducer builds a writer without a fixed topic; every message names its own.
func NewProducer(brokersSTR string) *Producer {
	brokers := strings.Split(brokersSTR, ",")

	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Async:                  false,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Close() error {
	return p.w.Close()
}

// PublishRecordCreated keys the message by record id so redeliveries of one record
// land on the same partition.
func (p *Producer) PublishRecordCreated(ctx context.Context, topic string, ev domain.RecordCreated) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(ev.RecordID.String()),
		Value: b,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "collection", Value: []byte(ev.Collection)},
		},
	})
}
