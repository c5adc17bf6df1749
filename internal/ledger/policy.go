package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountKind selects the policy governing an account.
type AccountKind string

const (
	Savings AccountKind = "SAVINGS"
	Current AccountKind = "CURRENT"
)

var (
	// MinBalance is the floor a savings account must keep after any withdrawal.
	MinBalance = decimal.NewFromInt(500)
	// OverdraftLimit is how far below zero a current account may go.
	OverdraftLimit = decimal.NewFromInt(10000)
	// AnnualRate is the savings interest rate per annum.
	AnnualRate = decimal.NewFromFloat(0.04)

	monthsPerYear = decimal.NewFromInt(12)
)

// Policy is the withdrawal gate for one account kind. CheckWithdraw returns
// nil when taking amount from balance is allowed, otherwise an
// *InsufficientFundsError carrying the violated rule.
type Policy interface {
	Kind() AccountKind
	CheckWithdraw(balance, amount decimal.Decimal) error
	InterestBearing() bool
}

type savingsPolicy struct{}

func (savingsPolicy) Kind() AccountKind { return Savings }
func (savingsPolicy) InterestBearing() bool { return true }

func (savingsPolicy) CheckWithdraw(balance, amount decimal.Decimal) error {
	if balance.Sub(amount).LessThan(MinBalance) {
		return &InsufficientFundsError{
			Balance: balance,
			Rule:    fmt.Sprintf("minimum balance of %s must be maintained", MinBalance.StringFixed(2)),
		}
	}
	return nil
}

type currentPolicy struct{}

func (currentPolicy) Kind() AccountKind { return Current }
func (currentPolicy) InterestBearing() bool { return false }

func (currentPolicy) CheckWithdraw(balance, amount decimal.Decimal) error {
	if amount.GreaterThan(balance.Add(OverdraftLimit)) {
		return &InsufficientFundsError{
			Balance: balance,
			Rule:    fmt.Sprintf("exceeds overdraft limit of %s", OverdraftLimit.StringFixed(2)),
		}
	}
	return nil
}

func policyFor(kind AccountKind) (Policy, error) {
	switch kind {
	case Savings:
		return savingsPolicy{}, nil
	case Current:
		return currentPolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown account kind %q", ErrInvalidOperation, kind)
	}
}
