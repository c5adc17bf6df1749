package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a transaction record.
type Kind string

const (
	KindOpening     Kind = "OPENING"
	KindDeposit     Kind = "DEPOSIT"
	KindWithdrawal  Kind = "WITHDRAWAL"
	KindTransferOut Kind = "TRANSFER_OUT"
	KindTransferIn  Kind = "TRANSFER_IN"
	KindInterest    Kind = "INTEREST"
)

// Transaction is one immutable entry in an account's ledger. Amount is the
// positive magnitude of the event; Balance is the account balance after the
// event was applied.
type Transaction struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	Timestamp time.Time       `json:"timestamp"`
}

// newTransaction stamps a record with a short display ID. The ID is unique
// enough for statements, not a global identifier.
func newTransaction(kind Kind, amount, balance decimal.Decimal) Transaction {
	return Transaction{
		ID:        uuid.New().String()[:8],
		Kind:      kind,
		Amount:    amount,
		Balance:   balance,
		Timestamp: time.Now(),
	}
}
