// Package postgres implements interfaces.AccountStore on a Postgres
// accounts table. Mutations run in a single transaction around a
// SELECT ... FOR UPDATE locking read, which is the serialization point
// for concurrent requests against the same account.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/verse-labs/verse-bank/internal/interfaces"
	"github.com/verse-labs/verse-bank/internal/ledger"
	"github.com/verse-labs/verse-bank/internal/models"
)

const uniqueViolation = "23505"

type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS accounts (
		id SERIAL PRIMARY KEY,
		account_number VARCHAR(255) UNIQUE NOT NULL,
		balance NUMERIC(15, 2) NOT NULL CHECK (balance >= 0)
	)`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *AccountStore) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM accounts`

	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *AccountStore) Seed(ctx context.Context, accounts []models.Account) (err error) {
	const query = `INSERT INTO accounts (account_number, balance) VALUES ($1, $2)`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, acct := range accounts {
		if _, err = tx.ExecContext(ctx, query, acct.AccountNumber, acct.Balance); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *AccountStore) CreateAccount(ctx context.Context, accountNumber string, balance decimal.Decimal) error {
	const query = `INSERT INTO accounts (account_number, balance) VALUES ($1, $2)`

	_, err := s.db.ExecContext(ctx, query, accountNumber, balance)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ledger.ErrDuplicateAccount
	}
	return err
}

func (s *AccountStore) GetAccount(ctx context.Context, accountNumber string) (models.Account, error) {
	const query = `SELECT id, account_number, balance FROM accounts WHERE account_number = $1`

	var acct models.Account
	err := s.db.QueryRowContext(ctx, query, accountNumber).Scan(&acct.ID, &acct.AccountNumber, &acct.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ledger.ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return acct, nil
}

// UpdateBalance performs the locked read-modify-write. The FOR UPDATE
// read blocks any concurrent transaction on the same row until this
// transaction commits or rolls back; other rows stay unaffected. Every
// exit path either commits or rolls back, so the row lock is released
// on validation failures and context cancellation alike.
func (s *AccountStore) UpdateBalance(ctx context.Context, accountNumber string, apply func(current decimal.Decimal) (decimal.Decimal, error)) (_ decimal.Decimal, err error) {
	const (
		lockQuery   = `SELECT balance FROM accounts WHERE account_number = $1 FOR UPDATE`
		updateQuery = `UPDATE accounts SET balance = $1 WHERE account_number = $2`
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var current decimal.Decimal
	err = tx.QueryRowContext(ctx, lockQuery, accountNumber).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		err = ledger.ErrAccountNotFound
		return decimal.Decimal{}, err
	}
	if err != nil {
		return decimal.Decimal{}, err
	}

	next, err := apply(current)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if _, err = tx.ExecContext(ctx, updateQuery, next, accountNumber); err != nil {
		return decimal.Decimal{}, err
	}
	if err = tx.Commit(); err != nil {
		return decimal.Decimal{}, err
	}
	return next, nil
}

var _ interfaces.AccountStore = (*AccountStore)(nil)
