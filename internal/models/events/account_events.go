// Package events defines the payloads published after committed account
// mutations. Publishing is a best-effort notification, not part of the
// transaction.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountCreated is emitted once per new account.
type AccountCreated struct {
	EventID        string          `json:"event_id"`
	AccountNumber  string          `json:"account_number"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// BalanceChanged is emitted after every committed deposit or withdrawal.
type BalanceChanged struct {
	EventID       string          `json:"event_id"`
	AccountNumber string          `json:"account_number"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
