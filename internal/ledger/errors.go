package ledger

import (
	"errors"
	"fmt"
)

// Domain errors. The API layer maps these to HTTP status codes; anything
// else coming out of this package is a *StoreError.
var (
	// ErrInvalidAmount rejects zero, negative, or sub-cent amounts
	// before the store is touched.
	ErrInvalidAmount = errors.New("amount must be positive with at most two decimal places")

	// ErrInvalidAccountNumber rejects empty account numbers.
	ErrInvalidAccountNumber = errors.New("account number must not be empty")

	// ErrNegativeInitialBalance rejects account creation with a negative
	// opening balance.
	ErrNegativeInitialBalance = errors.New("initial balance cannot be negative")

	// ErrAccountNotFound indicates the account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccount indicates the account number is already taken.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInsufficientFunds indicates a withdrawal would drive the
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// StoreError wraps an infrastructure failure from the account store. The
// underlying transaction has already been rolled back by the time one of
// these is returned.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrapStore classifies an error from the store: domain errors pass
// through, everything else becomes a *StoreError.
func wrapStore(op string, err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrDuplicateAccount),
		errors.Is(err, ErrInsufficientFunds):
		return err
	default:
		return &StoreError{Op: op, Err: err}
	}
}
