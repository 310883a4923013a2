package interfaces

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/verse-labs/verse-bank/internal/models"
)

// AccountStore is the transactional persistence boundary for accounts.
// Implementations must provide atomic read-modify-write per account:
// UpdateBalance serializes concurrent calls for the same account number
// while calls for different accounts proceed independently.
//
// Lookup misses are reported as ledger.ErrAccountNotFound and uniqueness
// violations as ledger.ErrDuplicateAccount so callers can map them
// without knowing the backend.
type AccountStore interface {
	// EnsureSchema creates the accounts table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// Count returns the number of accounts.
	Count(ctx context.Context) (int64, error)

	// Seed inserts the given accounts. Only called at startup on an
	// empty store.
	Seed(ctx context.Context, accounts []models.Account) error

	// CreateAccount inserts a new account row.
	CreateAccount(ctx context.Context, accountNumber string, balance decimal.Decimal) error

	// GetAccount reads an account without locking it.
	GetAccount(ctx context.Context, accountNumber string) (models.Account, error)

	// UpdateBalance runs apply against the current balance inside the
	// store's critical section for that account and persists the value
	// apply returns. An error from apply aborts the update with no write
	// and is returned unchanged. On success the persisted balance is
	// returned.
	UpdateBalance(ctx context.Context, accountNumber string, apply func(current decimal.Decimal) (decimal.Decimal, error)) (decimal.Decimal, error)
}
