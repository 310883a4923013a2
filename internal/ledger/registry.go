package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verse-labs/verse-bank/internal/interfaces"
	"github.com/verse-labs/verse-bank/internal/models"
	"github.com/verse-labs/verse-bank/internal/models/events"
	"github.com/verse-labs/verse-bank/internal/platform/logger"
)

// seedAccounts is the fixed bootstrap set inserted the first time the
// service starts against an empty store.
var seedAccounts = []models.Account{
	{AccountNumber: "1234567890", Balance: decimal.RequireFromString("5000.75")},
	{AccountNumber: "0987654321", Balance: decimal.RequireFromString("10250.00")},
	{AccountNumber: "5555555555", Balance: decimal.RequireFromString("732.10")},
	{AccountNumber: "1122334455", Balance: decimal.RequireFromString("25000.00")},
}

// Registry owns the account lifecycle: schema setup, first-run seeding,
// and account creation.
type Registry struct {
	store  interfaces.AccountStore
	events interfaces.EventPublisher
	log    *logger.Logger
}

func NewRegistry(store interfaces.AccountStore, events interfaces.EventPublisher, log *logger.Logger) *Registry {
	return &Registry{
		store:  store,
		events: events,
		log:    log.With("component", "registry"),
	}
}

// EnsureSchema creates the accounts table if absent. Idempotent; called
// on every startup.
func (r *Registry) EnsureSchema(ctx context.Context) error {
	if err := r.store.EnsureSchema(ctx); err != nil {
		return wrapStore("ensure schema", err)
	}
	return nil
}

// SeedIfEmpty inserts the bootstrap accounts when the store holds no
// rows. The count-then-insert is not transactional; it runs once at
// single-process startup before the server accepts requests.
func (r *Registry) SeedIfEmpty(ctx context.Context) error {
	count, err := r.store.Count(ctx)
	if err != nil {
		return wrapStore("count accounts", err)
	}
	if count > 0 {
		r.log.Info("store already populated, skipping seed", "accounts", count)
		return nil
	}
	if err := r.store.Seed(ctx, seedAccounts); err != nil {
		return wrapStore("seed accounts", err)
	}
	r.log.Info("seeded bootstrap accounts", "accounts", len(seedAccounts))
	return nil
}

// CreateAccount inserts a new account. The account number must be
// non-empty and the initial balance non-negative with at most two
// decimal places. Duplicates surface as ErrDuplicateAccount from the
// store's uniqueness constraint; there is deliberately no existence
// pre-check, which would race with concurrent creates.
func (r *Registry) CreateAccount(ctx context.Context, accountNumber string, initialBalance decimal.Decimal) error {
	if accountNumber == "" {
		return ErrInvalidAccountNumber
	}
	if initialBalance.IsNegative() {
		return ErrNegativeInitialBalance
	}
	if initialBalance.Exponent() < -2 {
		return ErrInvalidAmount
	}

	if err := r.store.CreateAccount(ctx, accountNumber, initialBalance); err != nil {
		return wrapStore("create account", err)
	}

	r.log.Info("account created",
		"account_number", accountNumber,
		"initial_balance", initialBalance.StringFixed(2),
	)
	if err := r.events.Publish(ctx, accountNumber, events.AccountCreated{
		EventID:        uuid.New().String(),
		AccountNumber:  accountNumber,
		InitialBalance: initialBalance,
		OccurredAt:     time.Now().UTC(),
	}); err != nil {
		r.log.Warn("event publish failed", "account_number", accountNumber, "error", err)
	}
	return nil
}
