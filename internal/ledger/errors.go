package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// InsufficientFundsError reports a rejected withdrawal or transfer together
// with the balance at the time and the policy rule that rejected it.
// It matches errors.Is(err, ErrInsufficientFunds).
type InsufficientFundsError struct {
	Balance decimal.Decimal
	Rule    string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: %s (current balance %s)", e.Rule, e.Balance.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
