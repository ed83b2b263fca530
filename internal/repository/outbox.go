package repository

import (
	"context"
	"fmt"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxRecord is a record-created event waiting to be published.
type OutboxRecord struct {
	ID    int64
	Event domain.RecordCreated
}

type OutboxRepo interface {
	ListPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, id int64) error
}

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(p *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: p}
}

func insertOutbox(ctx context.Context, tx pgx.Tx, collection string, recordID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO outbox (collection, record_id) VALUES ($1, $2)`,
		collection, recordID,
	)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, collection, record_id, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OutboxRecord
	for rows.Next() {
		var rec OutboxRecord
		if err := rows.Scan(&rec.ID, &rec.Event.Collection, &rec.Event.RecordID, &rec.Event.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE outbox SET published_at = NOW() WHERE id = $1`, id)
	return err
}
