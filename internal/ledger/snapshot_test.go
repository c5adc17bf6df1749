package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terminal-bench/bankledger/internal/ledger"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Run("restore should reproduce numbers, balances, and ordered logs", func(t *testing.T) {
		ctx := context.Background()
		bank := newTestBank(t)

		savings := openAccount(t, bank, ledger.Savings, 1000)
		current := openAccount(t, bank, ledger.Current, 0)

		_, err := bank.Deposit(ctx, current.Number(), decimal.NewFromInt(250))
		require.NoError(t, err)
		_, err = bank.Withdraw(ctx, savings.Number(), decimal.NewFromInt(300))
		require.NoError(t, err)
		_, _, err = bank.Transfer(ctx, savings.Number(), current.Number(), decimal.NewFromInt(100))
		require.NoError(t, err)
		_, err = bank.AccrueInterest(ctx, savings.Number())
		require.NoError(t, err)

		data, err := bank.Serialize()
		require.NoError(t, err)

		restored := ledger.NewBank("Test Bank", nil)
		require.NoError(t, restored.Restore(data))

		want := bank.Accounts()
		got := restored.Accounts()
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Number, got[i].Number)
			assert.Equal(t, want[i].Holder, got[i].Holder)
			assert.Equal(t, want[i].Kind, got[i].Kind)
			assert.True(t, want[i].Balance.Equal(got[i].Balance),
				"balance mismatch for %s: %s vs %s", want[i].Number, want[i].Balance, got[i].Balance)
		}

		for _, s := range want {
			orig, err := bank.Account(s.Number)
			require.NoError(t, err)
			clone, err := restored.Account(s.Number)
			require.NoError(t, err)

			origHist := orig.History()
			copyHist := clone.History()
			require.Len(t, copyHist, len(origHist))
			for i := range origHist {
				assert.Equal(t, origHist[i].ID, copyHist[i].ID)
				assert.Equal(t, origHist[i].Kind, copyHist[i].Kind)
				assert.True(t, origHist[i].Amount.Equal(copyHist[i].Amount))
				assert.True(t, origHist[i].Balance.Equal(copyHist[i].Balance))
				assert.True(t, origHist[i].Timestamp.Equal(copyHist[i].Timestamp))
			}
		}
	})

	t.Run("restored policies should still gate withdrawals", func(t *testing.T) {
		ctx := context.Background()
		bank := newTestBank(t)
		savings := openAccount(t, bank, ledger.Savings, 1000)

		data, err := bank.Serialize()
		require.NoError(t, err)

		restored := ledger.NewBank("Test Bank", nil)
		require.NoError(t, restored.Restore(data))

		_, err = restored.Withdraw(ctx, savings.Number(), decimal.NewFromInt(600))
		assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	})

	t.Run("number sequence should continue past the snapshot", func(t *testing.T) {
		ctx := context.Background()
		bank := newTestBank(t)
		existing := openAccount(t, bank, ledger.Current, 0)

		data, err := bank.Serialize()
		require.NoError(t, err)

		restored := ledger.NewBank("Test Bank", nil)
		require.NoError(t, restored.Restore(data))

		fresh, err := restored.CreateAccount(ctx, ledger.Current, "Carol", decimal.Zero)
		require.NoError(t, err)
		assert.NotEqual(t, existing.Number(), fresh.Number())
		assert.Len(t, restored.Accounts(), 2)
	})

	t.Run("restore should reject a corrupt snapshot", func(t *testing.T) {
		bank := newTestBank(t)
		assert.Error(t, bank.Restore([]byte("not json")))
	})
}
