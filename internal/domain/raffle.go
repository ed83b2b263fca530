package domain

import (
	"github.com/google/uuid"
	"time"
)

type RaffleEntry struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	SMSConsent bool      `json:"smsConsent"`
	CreatedAt  time.Time `json:"createdAt"`
}
