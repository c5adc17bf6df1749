package ledger

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/terminal-bench/bankledger/pkg/messaging"
)

// Publisher receives ledger events. The registry only publishes after all
// account locks are released, so implementations may safely read back into
// the registry. *messaging.Client satisfies this interface.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Bank is the account registry. It owns every account exclusively and routes
// all mutations; callers never touch account internals directly. The map is
// guarded by its own RWMutex so creating an account never blocks a transfer
// between unrelated accounts.
type Bank struct {
	name   string
	events Publisher

	mu       sync.RWMutex
	accounts map[string]*Account
	seq      atomic.Int64
}

// Summary is a point-in-time view of one account for listings.
type Summary struct {
	Number  string          `json:"number"`
	Holder  string          `json:"holder"`
	Kind    AccountKind     `json:"kind"`
	Balance decimal.Decimal `json:"balance"`
}

// NewBank creates an empty registry. events may be nil, which disables event
// publishing.
func NewBank(name string, events Publisher) *Bank {
	return &Bank{
		name:     name,
		events:   events,
		accounts: make(map[string]*Account),
	}
}

// Name returns the bank's display name.
func (b *Bank) Name() string { return b.name }

// newAccountNumber combines a monotonic sequence with a random suffix.
// Purely time-based numbers collide under rapid creation; the sequence is
// persisted in snapshots so restored registries keep allocating past it.
func (b *Bank) newAccountNumber() string {
	return fmt.Sprintf("ACC%06d-%04X", b.seq.Add(1), rand.Intn(0x10000))
}

// CreateAccount opens an account and returns its fresh account number.
// Savings accounts require an opening deposit of at least MinBalance; the
// request is rejected before any account is constructed.
func (b *Bank) CreateAccount(ctx context.Context, kind AccountKind, holder string, opening decimal.Decimal) (*Account, error) {
	policy, err := policyFor(kind)
	if err != nil {
		return nil, err
	}
	if opening.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if kind == Savings && opening.LessThan(MinBalance) {
		return nil, fmt.Errorf("%w: savings accounts require an opening deposit of at least %s",
			ErrInvalidOperation, MinBalance.StringFixed(2))
	}

	b.mu.Lock()
	number := b.newAccountNumber()
	acct := newAccount(number, holder, policy, opening)
	b.accounts[number] = acct
	b.mu.Unlock()

	b.publish(ctx, messaging.EventTypeAccountCreated, messaging.AccountEvent{
		Number:  number,
		Holder:  holder,
		Kind:    string(kind),
		Balance: opening.String(),
	})
	return acct, nil
}

// Account resolves an account number to its live account.
func (b *Bank) Account(number string) (*Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	acct, ok := b.accounts[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, number)
	}
	return acct, nil
}

// Accounts returns a snapshot of every account sorted by number. Each balance
// is read under that account's lock, so a listing never shows a half-applied
// transfer; the registry lock is not held while balances are read.
func (b *Bank) Accounts() []Summary {
	b.mu.RLock()
	accts := make([]*Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		accts = append(accts, a)
	}
	b.mu.RUnlock()

	sort.Slice(accts, func(i, j int) bool { return accts[i].number < accts[j].number })

	out := make([]Summary, 0, len(accts))
	for _, a := range accts {
		out = append(out, Summary{
			Number:  a.number,
			Holder:  a.holder,
			Kind:    a.Kind(),
			Balance: a.Balance(),
		})
	}
	return out
}

// Deposit credits amount to the named account.
func (b *Bank) Deposit(ctx context.Context, number string, amount decimal.Decimal) (Transaction, error) {
	acct, err := b.Account(number)
	if err != nil {
		return Transaction{}, err
	}
	txn, err := acct.Deposit(amount)
	if err != nil {
		return Transaction{}, err
	}
	b.publishTransaction(ctx, number, txn)
	return txn, nil
}

// Withdraw debits amount from the named account, subject to its policy.
func (b *Bank) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (Transaction, error) {
	acct, err := b.Account(number)
	if err != nil {
		return Transaction{}, err
	}
	txn, err := acct.Withdraw(amount)
	if err != nil {
		return Transaction{}, err
	}
	b.publishTransaction(ctx, number, txn)
	return txn, nil
}

// AccrueInterest credits monthly interest to the named savings account.
func (b *Bank) AccrueInterest(ctx context.Context, number string) (Transaction, error) {
	acct, err := b.Account(number)
	if err != nil {
		return Transaction{}, err
	}
	txn, err := acct.AccrueInterest()
	if err != nil {
		return Transaction{}, err
	}
	b.publishTransaction(ctx, number, txn)
	return txn, nil
}

// lockPair acquires both account locks in account-number order, regardless of
// which side is sending. Every code path that ever holds two account locks
// must go through here: locking in call order deadlocks as soon as two
// transfers race in opposite directions.
func lockPair(a, b *Account) (first, second *Account) {
	first, second = a, b
	if b.number < a.number {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return first, second
}

// Transfer atomically moves amount between two accounts. The sender's
// withdrawal policy applies exactly as in a standalone withdraw. Both balance
// mutations and both TRANSFER_OUT/TRANSFER_IN records happen while both locks
// are held, so no observer sees money in flight.
func (b *Bank) Transfer(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal) (out, in Transaction, err error) {
	if fromNumber == toNumber {
		return Transaction{}, Transaction{}, fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidOperation)
	}
	from, err := b.Account(fromNumber)
	if err != nil {
		return Transaction{}, Transaction{}, err
	}
	to, err := b.Account(toNumber)
	if err != nil {
		return Transaction{}, Transaction{}, err
	}
	if !amount.IsPositive() {
		return Transaction{}, Transaction{}, ErrInvalidAmount
	}

	first, second := lockPair(from, to)
	gateErr := from.policy.CheckWithdraw(from.balance, amount)
	if gateErr == nil {
		from.balance = from.balance.Sub(amount)
		to.balance = to.balance.Add(amount)
		out = newTransaction(KindTransferOut, amount, from.balance)
		in = newTransaction(KindTransferIn, amount, to.balance)
		from.transactions = append(from.transactions, out)
		to.transactions = append(to.transactions, in)
	}
	second.mu.Unlock()
	first.mu.Unlock()

	if gateErr != nil {
		return Transaction{}, Transaction{}, gateErr
	}

	b.publish(ctx, messaging.EventTypeTransferCompleted, messaging.TransferEvent{
		FromNumber: fromNumber,
		ToNumber:   toNumber,
		Amount:     amount.String(),
		OutID:      out.ID,
		InID:       in.ID,
	})
	return out, in, nil
}

// publish sends an event when a publisher is wired. Events are fired after
// all locks are released; delivery is best effort, but dropped events are
// logged so they stay observable.
func (b *Bank) publish(ctx context.Context, subject string, data interface{}) {
	if b.events == nil {
		return
	}
	if err := b.events.Publish(ctx, subject, data); err != nil {
		log.Printf("ledger: dropped event %s: %v", subject, err)
	}
}

func (b *Bank) publishTransaction(ctx context.Context, number string, txn Transaction) {
	b.publish(ctx, messaging.EventTypeTransactionPosted, messaging.TransactionEvent{
		TransactionID: txn.ID,
		Number:        number,
		Kind:          string(txn.Kind),
		Amount:        txn.Amount.String(),
		Balance:       txn.Balance.String(),
	})
}
