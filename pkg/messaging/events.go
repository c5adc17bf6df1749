package messaging

// Event subjects
const (
	EventTypeAccountCreated    = "account.created"
	EventTypeTransactionPosted = "transaction.posted"
	EventTypeTransferCompleted = "transfer.completed"
)

// AccountEvent announces a newly opened account.
type AccountEvent struct {
	Number  string `json:"number"`
	Holder  string `json:"holder"`
	Kind    string `json:"kind"`
	Balance string `json:"balance"`
}

// TransactionEvent announces a posted ledger entry. Amounts travel as decimal
// strings to keep precision across the wire.
type TransactionEvent struct {
	TransactionID string `json:"transaction_id"`
	Number        string `json:"number"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	Balance       string `json:"balance"`
}

// TransferEvent announces a completed two-account transfer.
type TransferEvent struct {
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
	Amount     string `json:"amount"`
	OutID      string `json:"out_transaction_id"`
	InID       string `json:"in_transaction_id"`
}
