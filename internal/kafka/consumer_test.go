package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/notify"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedHandler struct {
	errs  []error
	calls int
}

func (h *scriptedHandler) Handle(ctx context.Context, ev domain.RecordCreated) error {
	h.calls++
	if h.calls <= len(h.errs) {
		return h.errs[h.calls-1]
	}
	return nil
}

func instantPolicy(tries uint) retryPolicy {
	return retryPolicy{maxTries: tries, newBackOff: func() backoff.BackOff { return &backoff.ZeroBackOff{} }}
}

func eventMessage(t *testing.T) kafka.Message {
	t.Helper()
	b, err := json.Marshal(domain.RecordCreated{Collection: domain.CollectionRaffle, RecordID: uuid.New()})
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func transient() error {
	return &notify.TransientError{Op: "post raffle webhook", Err: errors.New("status 503")}
}

func TestProcessRetriesTransientFailures(t *testing.T) {
	h := &scriptedHandler{errs: []error{transient(), transient()}}

	err := process(context.Background(), h, eventMessage(t), instantPolicy(5))
	require.NoError(t, err)
	assert.Equal(t, 3, h.calls)
}

func TestProcessGivesUpAfterMaxAttempts(t *testing.T) {
	h := &scriptedHandler{errs: []error{transient(), transient(), transient(), transient()}}

	err := process(context.Background(), h, eventMessage(t), instantPolicy(3))
	require.Error(t, err)
	assert.True(t, notify.IsTransient(err))
	assert.Equal(t, 3, h.calls)
}

func TestProcessDoesNotRetryOtherErrors(t *testing.T) {
	boom := errors.New("bad payload")
	h := &scriptedHandler{errs: []error{boom}}

	err := process(context.Background(), h, eventMessage(t), instantPolicy(5))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, h.calls)
}

func TestProcessRejectsInvalidJSON(t *testing.T) {
	h := &scriptedHandler{}

	err := process(context.Background(), h, kafka.Message{Value: []byte("{not json")}, instantPolicy(5))
	assert.ErrorIs(t, err, errInvalidMessage)

	err = process(context.Background(), h, kafka.Message{Value: []byte(`{"id":"` + uuid.NewString() + `"}`)}, instantPolicy(5))
	assert.ErrorIs(t, err, errInvalidMessage)
	assert.Zero(t, h.calls)
}
