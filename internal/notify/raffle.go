package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

const RaffleKeyHeader = "x-raffle-key"

type RaffleReader interface {
	GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.RaffleEntry, error)
}

type RafflePayload struct {
	EntryID    string `json:"entryId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	SMSConsent bool   `json:"smsConsent"`
	CreatedAt  string `json:"createdAt"`
}

// RaffleForwarder posts new raffle entries to an external webhook.
type RaffleForwarder struct {
	entries RaffleReader
	url     string
	secret  string
	client  *http.Client
	now     func() time.Time
}

func NewRaffleForwarder(entries RaffleReader, url, secret string) *RaffleForwarder {
	return &RaffleForwarder{
		entries: entries,
		url:     url,
		secret:  secret,
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		now:     time.Now,
	}
}

func (f *RaffleForwarder) Handle(ctx context.Context, ev domain.RecordCreated) error {
	ctx, span := startSpan(ctx, "notify.raffle_created", ev)
	defer span.End()

	entry, err := f.entries.GetEntryByID(ctx, ev.RecordID)
	if err != nil {
		if errors.Is(err, repository.ErrRaffleEntryNotFound) {
			logger.Warn("raffle forward skipped", "id", ev.RecordID, "err", ErrMissingData)
			return nil
		}
		span.RecordError(err)
		return &TransientError{Op: "read raffle entry", Err: err}
	}

	payload := f.BuildPayload(entry, ev)
	if payload.Phone == "" {
		logger.Info("raffle entry has no phone, not forwarding", "id", payload.EntryID)
		return nil
	}
	if f.url == "" {
		logger.Info("raffle webhook not configured, not forwarding", "id", payload.EntryID)
		return nil
	}

	err = f.Forward(ctx, payload)
	switch {
	case err == nil:
		logger.Info("raffle entry forwarded", "id", payload.EntryID)
		return nil
	case IsPermanent(err):
		logger.Warn("raffle webhook rejected entry", "id", payload.EntryID, "err", err)
		return nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "raffle forward failed")
		logger.Warn("raffle webhook failed, will retry", "id", payload.EntryID, "err", err)
		return err
	}
}

// BuildPayload maps an entry to the webhook body. createdAt comes from the record,
// then the event, then the current time.
func (f *RaffleForwarder) BuildPayload(e *domain.RaffleEntry, ev domain.RecordCreated) RafflePayload {
	created := e.CreatedAt
	if created.IsZero() {
		created = ev.CreatedAt
	}
	if created.IsZero() {
		created = f.now()
	}
	return RafflePayload{
		EntryID:    e.ID.String(),
		Name:       e.Name,
		Phone:      strings.TrimSpace(e.Phone),
		Email:      e.Email,
		SMSConsent: e.SMSConsent,
		CreatedAt:  created.UTC().Format(time.RFC3339),
	}
}

// Forward sends one POST. 5xx and transport failures are transient; any other
// non-2xx status is permanent.
func (f *RaffleForwarder) Forward(ctx context.Context, p RafflePayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return &PermanentError{Op: "encode raffle payload", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return &PermanentError{Op: "build raffle request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RaffleKeyHeader, f.secret)

	resp, err := f.client.Do(req)
	if err != nil {
		return &TransientError{Op: "post raffle webhook", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return &TransientError{Op: "post raffle webhook", Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		return &PermanentError{Op: "post raffle webhook", StatusCode: resp.StatusCode}
	}
}
