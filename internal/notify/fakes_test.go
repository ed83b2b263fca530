package notify

import (
	"context"
	"sync"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/google/uuid"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []Message
	failTo string
	err    error
}

func (s *fakeSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTo != "" && msg.To == s.failTo {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type fakeOrders struct {
	orders map[uuid.UUID]*domain.Order
	err    error
}

func (f *fakeOrders) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

type fakeEntries struct {
	entries map[uuid.UUID]*domain.RaffleEntry
	err     error
}

func (f *fakeEntries) GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.RaffleEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.entries[id]
	if !ok {
		return nil, repository.ErrRaffleEntryNotFound
	}
	return e, nil
}

func dropOffOrder() *domain.Order {
	return &domain.Order{
		ID: uuid.New(),
		OrderDraft: domain.OrderDraft{
			FirstName:    "Brad",
			LastName:     "Tom",
			Phone:        "4155551234",
			Email:        "frank@laundry.com",
			DeliveryType: domain.DeliveryDropOff,
			ServiceType:  domain.ServiceBasic,
			DropOffDate:  domain.NewDate(2025, time.July, 30),
			TimeSlot:     "12:00 PM - 02:00 PM",
			State:        "CA",
			NumberOfBags: "2",
			LaundryType:  "mixed",
			SMSConsent:   true,
			AgreeTerms:   true,
		},
		OrderID: "3F2A9C1B",
		Status:  domain.StatusReceived,
	}
}
