package domain

import (
	"github.com/google/uuid"
	"time"
)

const (
	CollectionOrders = "orders"
	CollectionRaffle = "raffle"
)

// RecordCreated is published once a record is persisted. It only references the record;
// handlers read the current state from the store.
type RecordCreated struct {
	Collection string    `json:"collection"`
	RecordID   uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
}
