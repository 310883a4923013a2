// Package ledger holds the balance mutation engine and the account
// registry. All balance arithmetic is fixed-point decimal; the engine
// keeps no account state between calls — every mutation re-reads the
// balance under the store's exclusive lock.
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

// Kind labels the direction of a balance mutation.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// Service applies deposits and withdrawals to exactly one account at a
// time. Correctness under concurrency comes from the store: the
// read-validate-write sequence runs inside the store's per-account
// critical section, so two mutations of the same account serialize while
// mutations of different accounts run in parallel.
type Service struct {
	store  interfaces.AccountStore
	events interfaces.EventPublisher
	log    *logger.Logger
}

func NewService(store interfaces.AccountStore, events interfaces.EventPublisher, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		events: events,
		log:    log.With("component", "ledger"),
	}
}

// Deposit adds amount to the account's balance and returns the new
// balance. amount must be positive with at most two decimal places.
func (s *Service) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.applyDelta(ctx, accountNumber, amount, KindDeposit)
}

// Withdraw subtracts amount from the account's balance and returns the
// new balance. Fails with ErrInsufficientFunds if the balance would go
// negative; the balance is left untouched in that case.
func (s *Service) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.applyDelta(ctx, accountNumber, amount, KindWithdrawal)
}

func (s *Service) applyDelta(ctx context.Context, accountNumber string, amount decimal.Decimal, kind Kind) (decimal.Decimal, error) {
	if err := validateAmount(amount); err != nil {
		return decimal.Decimal{}, err
	}

	var oldBalance decimal.Decimal
	newBalance, err := s.store.UpdateBalance(ctx, accountNumber, func(current decimal.Decimal) (decimal.Decimal, error) {
		oldBalance = current
		if kind == KindWithdrawal {
			next := current.Sub(amount)
			if next.IsNegative() {
				return decimal.Decimal{}, ErrInsufficientFunds
			}
			return next, nil
		}
		return current.Add(amount), nil
	})
	if err != nil {
		return decimal.Decimal{}, wrapStore("update balance", err)
	}

	s.log.Info("balance updated",
		"kind", kind,
		"account_number", accountNumber,
		"old_balance", oldBalance.StringFixed(2),
		"amount", amount.StringFixed(2),
		"new_balance", newBalance.StringFixed(2),
	)
	s.publish(ctx, accountNumber, events.BalanceChanged{
		EventID:       uuid.New().String(),
		AccountNumber: accountNumber,
		Kind:          string(kind),
		Amount:        amount,
		NewBalance:    newBalance,
		OccurredAt:    time.Now().UTC(),
	})
	return newBalance, nil
}

// GetAccount reads the account without locking it. The result reflects
// some committed state; no isolation beyond read-committed is promised.
func (s *Service) GetAccount(ctx context.Context, accountNumber string) (models.Account, error) {
	acct, err := s.store.GetAccount(ctx, accountNumber)
	if err != nil {
		return models.Account{}, wrapStore("get account", err)
	}
	return acct, nil
}

// publish is fire-and-forget: a failed publish is logged and never fails
// the request, since the mutation has already committed.
func (s *Service) publish(ctx context.Context, key string, event any) {
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Warn("event publish failed", "account_number", key, "error", err)
	}
}

// validateAmount enforces the input contract shared by deposits and
// withdrawals: strictly positive, at most cent precision. Exponent
// below -2 means sub-cent digits survived parsing.
func validateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 || amount.Exponent() < -2 {
		return ErrInvalidAmount
	}
	return nil
}
