package ledger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Snapshot mirrors the full registry state in plain serializable form.
// Balances ride through JSON as decimal strings, so a restore reproduces
// them exactly.
type Snapshot struct {
	Bank     string            `json:"bank"`
	Sequence int64             `json:"sequence"`
	Accounts []AccountSnapshot `json:"accounts"`
}

// AccountSnapshot is one account's state within a Snapshot.
type AccountSnapshot struct {
	Number       string          `json:"number"`
	Holder       string          `json:"holder"`
	Kind         AccountKind     `json:"kind"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
}

// Snapshot exports every account with its ordered transaction log. Each
// account is copied under its own lock, after the registry lock is released.
func (b *Bank) Snapshot() Snapshot {
	b.mu.RLock()
	accts := make([]*Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		accts = append(accts, a)
	}
	seq := b.seq.Load()
	b.mu.RUnlock()

	sort.Slice(accts, func(i, j int) bool { return accts[i].number < accts[j].number })

	snap := Snapshot{Bank: b.name, Sequence: seq}
	for _, a := range accts {
		a.mu.Lock()
		txns := make([]Transaction, len(a.transactions))
		copy(txns, a.transactions)
		snap.Accounts = append(snap.Accounts, AccountSnapshot{
			Number:       a.number,
			Holder:       a.holder,
			Kind:         a.Kind(),
			Balance:      a.balance,
			Transactions: txns,
		})
		a.mu.Unlock()
	}
	return snap
}

// Serialize encodes the registry for the persistence collaborator. The byte
// stream is opaque to callers; the only contract is round-trip fidelity.
func (b *Bank) Serialize() ([]byte, error) {
	return json.Marshal(b.Snapshot())
}

// Restore replaces all registry state with a previously serialized snapshot:
// same account numbers, holders, balances, and ordered logs, and the number
// sequence continues past its persisted value.
func (b *Bank) Restore(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	accounts := make(map[string]*Account, len(snap.Accounts))
	for _, as := range snap.Accounts {
		policy, err := policyFor(as.Kind)
		if err != nil {
			return fmt.Errorf("account %s: %w", as.Number, err)
		}
		txns := make([]Transaction, len(as.Transactions))
		copy(txns, as.Transactions)
		accounts[as.Number] = &Account{
			number:       as.Number,
			holder:       as.Holder,
			policy:       policy,
			balance:      as.Balance,
			transactions: txns,
		}
	}

	b.mu.Lock()
	b.accounts = accounts
	b.seq.Store(snap.Sequence)
	b.mu.Unlock()
	return nil
}
