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

type RaffleRepo interface {
	AddEntry(ctx context.Context, e *domain.RaffleEntry) error
	GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.RaffleEntry, error)
}

type RaffleRepository struct {
	pool *pgxpool.Pool
}

func NewRaffleRepository(p *pgxpool.Pool) *RaffleRepository {
	return &RaffleRepository{pool: p}
}

type rafflePayload struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	SMSConsent bool   `json:"smsConsent"`
}

func (r *RaffleRepository) AddEntry(ctx context.Context, e *domain.RaffleEntry) error {
	payload, err := json.Marshal(rafflePayload{
		Name:       e.Name,
		Phone:      e.Phone,
		Email:      e.Email,
		SMSConsent: e.SMSConsent,
	})
	if err != nil {
		return fmt.Errorf("marshal raffle payload: %w", err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO raffle (id, payload) VALUES ($1, $2) RETURNING created_at`,
		e.ID, payload,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert raffle entry: %w", err)
	}

	if err = insertOutbox(ctx, tx, domain.CollectionRaffle, e.ID); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit raffle entry: %w", err)
	}
	return nil
}

func (r *RaffleRepository) GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.RaffleEntry, error) {
	var (
		e       domain.RaffleEntry
		payload []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, payload, created_at FROM raffle WHERE id = $1`, id,
	).Scan(&e.ID, &payload, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRaffleEntryNotFound
		}
		return nil, err
	}

	var p rafflePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode raffle %s payload: %w", e.ID, err)
	}
	e.Name, e.Phone, e.Email, e.SMSConsent = p.Name, p.Phone, p.Email, p.SMSConsent
	return &e, nil
}
