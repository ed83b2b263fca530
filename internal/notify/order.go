package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/RaikyD/laundry-intake-service/internal/validation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

type OrderReader interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type OrderNotifierConfig struct {
	BusinessName string
	From         string
	StaffPhones  []string
}

// OrderNotifier texts the customer and every staff number when an order is stored.
type OrderNotifier struct {
	orders OrderReader
	sender Sender
	cfg    OrderNotifierConfig
}

func NewOrderNotifier(orders OrderReader, sender Sender, cfg OrderNotifierConfig) *OrderNotifier {
	return &OrderNotifier{orders: orders, sender: sender, cfg: cfg}
}

// SendResult is the outcome of one message. Sends are independent; a failure here
// does not affect the others.
type SendResult struct {
	To  string
	Err error
}

type Report struct {
	Results []SendResult
}

func (r Report) Sent() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

func (r Report) Failed() int { return len(r.Results) - r.Sent() }

func (n *OrderNotifier) Handle(ctx context.Context, ev domain.RecordCreated) error {
	ctx, span := startSpan(ctx, "notify.order_created", ev)
	defer span.End()

	report, err := n.Notify(ctx, ev.RecordID)
	switch {
	case errors.Is(err, ErrMissingData):
		logger.Warn("order notification skipped", "id", ev.RecordID, "err", err)
		return nil
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "order notification failed")
		return err
	}

	span.SetAttributes(
		attribute.Int("sms.sent", report.Sent()),
		attribute.Int("sms.failed", report.Failed()),
	)
	logger.Info("order notifications done", "id", ev.RecordID, "sent", report.Sent(), "failed", report.Failed())
	return nil
}

// Notify reads the order and sends the customer and staff messages concurrently,
// waiting for all of them.
func (n *OrderNotifier) Notify(ctx context.Context, id uuid.UUID) (Report, error) {
	order, err := n.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return Report{}, fmt.Errorf("order %s: %w", id, ErrMissingData)
		}
		return Report{}, &TransientError{Op: "read order", Err: err}
	}
	if strings.TrimSpace(order.Phone) == "" {
		return Report{}, fmt.Errorf("order %s has no phone: %w", order.OrderID, ErrMissingData)
	}

	msgs := make([]Message, 0, 1+len(n.cfg.StaffPhones))
	msgs = append(msgs, Message{To: e164(order.Phone), From: n.cfg.From, Body: CustomerMessage(order, n.cfg.BusinessName)})
	staffBody := StaffMessage(order)
	for _, phone := range n.cfg.StaffPhones {
		msgs = append(msgs, Message{To: phone, From: n.cfg.From, Body: staffBody})
	}

	results := make([]SendResult, len(msgs))
	var g errgroup.Group
	for i, msg := range msgs {
		g.Go(func() error {
			err := n.sender.Send(ctx, msg)
			results[i] = SendResult{To: msg.To, Err: err}
			if err != nil {
				logger.Warn("sms send failed", "order_id", order.OrderID, "to", msg.To, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Report{Results: results}, nil
}

func CustomerMessage(o *domain.Order, business string) string {
	return fmt.Sprintf("Hi %s, your order #%s was received by %s! We'll text you when it's ready for pickup.",
		o.FirstName, o.OrderID, business)
}

func StaffMessage(o *domain.Order) string {
	var b strings.Builder
	b.WriteString("New Order Received:\n")
	fmt.Fprintf(&b, "- Name: %s %s\n", o.FirstName, o.LastName)
	fmt.Fprintf(&b, "- Order ID: %s\n", o.OrderID)
	fmt.Fprintf(&b, "- Phone: %s\n", o.Phone)
	fmt.Fprintf(&b, "- Delivery Type: %s\n", o.DeliveryType)
	fmt.Fprintf(&b, "- Service Type: %s\n", o.ServiceType)
	fmt.Fprintf(&b, "- Date: %s\n", o.DropOffDate.Long())
	fmt.Fprintf(&b, "- Time Slot: %s\n", o.TimeSlot)
	if o.NeedsAddress() {
		fmt.Fprintf(&b, "- Address: %s\n", address(o.OrderDraft))
	}
	fmt.Fprintf(&b, "- Special Requests: %s", orNA(o.SpecialRequests))
	return b.String()
}

func address(d domain.OrderDraft) string {
	parts := []string{d.AddressLine1}
	if d.AddressLine2 != "" {
		parts = append(parts, d.AddressLine2)
	}
	parts = append(parts, d.City, strings.TrimSpace(d.State+" "+d.Zip))
	return strings.Join(parts, ", ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func e164(phone string) string {
	if p, ok := validation.NormalizeUSPhone(phone); ok {
		return p
	}
	return phone
}
