package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Account is a single ledger account. Every mutation happens under the
// account's own mutex; operations spanning two accounts must go through the
// registry's ordered locking helper instead of taking both locks ad hoc.
type Account struct {
	number string
	holder string
	policy Policy

	mu           sync.Mutex
	balance      decimal.Decimal
	transactions []Transaction
}

func newAccount(number, holder string, policy Policy, opening decimal.Decimal) *Account {
	a := &Account{
		number:  number,
		holder:  holder,
		policy:  policy,
		balance: opening,
	}
	if opening.IsPositive() {
		a.transactions = append(a.transactions, newTransaction(KindOpening, opening, opening))
	}
	return a
}

func (a *Account) Number() string { return a.number }
func (a *Account) Holder() string { return a.holder }
func (a *Account) Kind() AccountKind { return a.policy.Kind() }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit credits amount to the account and appends a DEPOSIT record.
func (a *Account) Deposit(amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = a.balance.Add(amount)
	txn := newTransaction(KindDeposit, amount, a.balance)
	a.transactions = append(a.transactions, txn)
	return txn, nil
}

// Withdraw debits amount if the account's policy allows it. On rejection the
// balance and log are left untouched.
func (a *Account) Withdraw(amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.policy.CheckWithdraw(a.balance, amount); err != nil {
		return Transaction{}, err
	}
	a.balance = a.balance.Sub(amount)
	txn := newTransaction(KindWithdrawal, amount, a.balance)
	a.transactions = append(a.transactions, txn)
	return txn, nil
}

// AccrueInterest credits one month of interest (annual rate / 12, rounded to
// cents) and appends an INTEREST record. Only savings accounts accrue
// interest; for any other kind the account is left untouched.
func (a *Account) AccrueInterest() (Transaction, error) {
	if !a.policy.InterestBearing() {
		return Transaction{}, fmt.Errorf("%w: %s accounts do not accrue interest", ErrInvalidOperation, a.policy.Kind())
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	interest := a.balance.Mul(AnnualRate).Div(monthsPerYear).Round(2)
	a.balance = a.balance.Add(interest)
	txn := newTransaction(KindInterest, interest, a.balance)
	a.transactions = append(a.transactions, txn)
	return txn, nil
}

// History returns a copy of the transaction log in chronological order. The
// copy is taken under the account lock so a concurrent transfer can never
// show up half-recorded.
func (a *Account) History() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}
