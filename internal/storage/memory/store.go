// Package memory is an in-process implementation of
// interfaces.AccountStore. A per-account mutex makes UpdateBalance's
// read-modify-write atomic per account, mirroring the row lock the
// Postgres store takes; a separate mutex guards the maps themselves.
// Used by tests and for running without a database.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/verse-labs/verse-bank/internal/interfaces"
	"github.com/verse-labs/verse-bank/internal/ledger"
	"github.com/verse-labs/verse-bank/internal/models"
)

type AccountStore struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]models.Account
	locks    map[string]*sync.Mutex
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]models.Account),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *AccountStore) accountLock(accountNumber string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.locks[accountNumber]; !exists {
		m.locks[accountNumber] = &sync.Mutex{}
	}
	return m.locks[accountNumber]
}

func (m *AccountStore) EnsureSchema(ctx context.Context) error {
	return nil
}

func (m *AccountStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.accounts)), nil
}

func (m *AccountStore) Seed(ctx context.Context, accounts []models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acct := range accounts {
		m.nextID++
		acct.ID = m.nextID
		m.accounts[acct.AccountNumber] = acct
	}
	return nil
}

func (m *AccountStore) CreateAccount(ctx context.Context, accountNumber string, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[accountNumber]; exists {
		return ledger.ErrDuplicateAccount
	}
	m.nextID++
	m.accounts[accountNumber] = models.Account{
		ID:            m.nextID,
		AccountNumber: accountNumber,
		Balance:       balance,
	}
	return nil
}

func (m *AccountStore) GetAccount(ctx context.Context, accountNumber string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, exists := m.accounts[accountNumber]
	if !exists {
		return models.Account{}, ledger.ErrAccountNotFound
	}
	return acct, nil
}

// UpdateBalance holds the account's mutex across read, apply, and write,
// so concurrent updates to one account serialize while other accounts
// proceed. An apply error leaves the stored balance untouched.
func (m *AccountStore) UpdateBalance(ctx context.Context, accountNumber string, apply func(current decimal.Decimal) (decimal.Decimal, error)) (decimal.Decimal, error) {
	lock := m.accountLock(accountNumber)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, err
	}

	m.mu.Lock()
	acct, exists := m.accounts[accountNumber]
	m.mu.Unlock()
	if !exists {
		return decimal.Decimal{}, ledger.ErrAccountNotFound
	}

	next, err := apply(acct.Balance)
	if err != nil {
		return decimal.Decimal{}, err
	}

	m.mu.Lock()
	acct.Balance = next
	m.accounts[accountNumber] = acct
	m.mu.Unlock()
	return next, nil
}

var _ interfaces.AccountStore = (*AccountStore)(nil)
