package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/google/uuid"
)

var serverClock = time.Date(2025, time.July, 28, 17, 0, 0, 0, time.UTC)

type storedOrder struct {
	orderID   string
	status    domain.Status
	notes     string
	payload   []byte
	createdAt time.Time
}

// memOrderRepo keeps the payload as JSON so reads go through the same encoding as Postgres.
type memOrderRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]storedOrder
	order []uuid.UUID
	err   error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{rows: map[uuid.UUID]storedOrder{}}
}

func (m *memOrderRepo) AddOrder(ctx context.Context, o *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	payload, err := json.Marshal(o.OrderDraft)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o.CreatedAt = serverClock
	m.rows[o.ID] = storedOrder{orderID: o.OrderID, status: o.Status, notes: o.Notes, payload: payload, createdAt: serverClock}
	m.order = append(m.order, o.ID)
	return nil
}

func (m *memOrderRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return decodeStored(id, row)
}

func (m *memOrderRepo) ListOrders(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, id := range m.order {
		row := m.rows[id]
		if status != "" && row.status != status {
			continue
		}
		o, err := decodeStored(id, row)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func (m *memOrderRepo) UpdateOrder(ctx context.Context, id uuid.UUID, upd domain.OrderUpdate) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if upd.Status != nil {
		row.status = *upd.Status
	}
	if upd.Notes != nil {
		row.notes = *upd.Notes
	}
	m.rows[id] = row
	return decodeStored(id, row)
}

func decodeStored(id uuid.UUID, row storedOrder) (*domain.Order, error) {
	o := &domain.Order{ID: id, OrderID: row.orderID, Status: row.status, Notes: row.notes, CreatedAt: row.createdAt}
	if err := json.Unmarshal(row.payload, &o.OrderDraft); err != nil {
		return nil, err
	}
	return o, nil
}

type memRaffleRepo struct {
	entries []domain.RaffleEntry
	err     error
}

func (m *memRaffleRepo) AddEntry(ctx context.Context, e *domain.RaffleEntry) error {
	if m.err != nil {
		return m.err
	}
	e.CreatedAt = serverClock
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memRaffleRepo) GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.RaffleEntry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, repository.ErrRaffleEntryNotFound
}
