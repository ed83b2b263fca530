package repository

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrRaffleEntryNotFound = errors.New("raffle entry not found")
)
