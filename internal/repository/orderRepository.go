package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepo interface {
	AddOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, status domain.Status) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, upd domain.OrderUpdate) (*domain.Order, error)
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(p *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: p}
}

const orderColumns = `id, order_id, status, notes, payload, created_at`

// AddOrder stores the order and its outbox event in one transaction.
// CreatedAt is filled from the database clock.
func (p *OrderRepository) AddOrder(ctx context.Context, o *domain.Order) error {
	payload, err := json.Marshal(o.OrderDraft)
	if err != nil {
		return fmt.Errorf("marshal order payload: %w", err)
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, order_id, status, notes, payload)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		o.ID,
		o.OrderID,
		string(o.Status),
		o.Notes,
		payload,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err = insertOutbox(ctx, tx, domain.CollectionOrders, o.ID); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (p *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListOrders returns newest first; an empty status means all orders.
func (p *OrderRepository) ListOrders(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC`,
		string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrder overwrites status and/or notes. Concurrent edits are last-write-wins.
func (p *OrderRepository) UpdateOrder(ctx context.Context, id uuid.UUID, upd domain.OrderUpdate) (*domain.Order, error) {
	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}
	row := p.pool.QueryRow(ctx,
		`UPDATE orders
		 SET status = COALESCE($2, status), notes = COALESCE($3, notes)
		 WHERE id = $1
		 RETURNING `+orderColumns,
		id, status, upd.Notes,
	)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o       domain.Order
		status  string
		payload []byte
	)
	if err := row.Scan(&o.ID, &o.OrderID, &status, &o.Notes, &payload, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &o.OrderDraft); err != nil {
		return nil, fmt.Errorf("decode order %s payload: %w", o.ID, err)
	}
	o.Status = domain.Status(status)
	return &o, nil
}
