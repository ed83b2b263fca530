package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/RaikyD/laundry-intake-service/internal/validation"
	"github.com/google/uuid"
)

type RaffleService struct {
	repo repository.RaffleRepo
}

func NewRaffleService(r repository.RaffleRepo) *RaffleService {
	return &RaffleService{repo: r}
}

type RaffleInput struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	SMSConsent bool   `json:"smsConsent"`
}

func (s *RaffleService) Enter(ctx context.Context, in RaffleInput) (*domain.RaffleEntry, error) {
	entry := &domain.RaffleEntry{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(in.Name),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
		SMSConsent: in.SMSConsent,
	}
	if err := validation.ValidateRaffleEntry(*entry).Err(); err != nil {
		return nil, err
	}
	if err := s.repo.AddEntry(ctx, entry); err != nil {
		logger.Warn("raffle: add entry failed", "err", err)
		return nil, fmt.Errorf("persist raffle entry: %w", err)
	}
	logger.Info("raffle entry stored", "id", entry.ID)
	return entry, nil
}
