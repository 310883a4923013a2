package models

import "github.com/shopspring/decimal"

// Account is one row of the accounts table. Balance is fixed-point with
// two decimal places and never negative; AccountNumber is immutable once
// the row exists.
type Account struct {
	ID            int64
	AccountNumber string
	Balance       decimal.Decimal
}
