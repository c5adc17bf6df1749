package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terminal-bench/bankledger/internal/ledger"
)

func TestTransfer(t *testing.T) {
	t.Run("should move funds and record both sides", func(t *testing.T) {
		bank := newTestBank(t)
		savings := openAccount(t, bank, ledger.Savings, 1000)
		current := openAccount(t, bank, ledger.Current, 0)

		out, in, err := bank.Transfer(context.Background(), savings.Number(), current.Number(), decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.True(t, savings.Balance().Equal(decimal.NewFromInt(900)))
		assert.True(t, current.Balance().Equal(decimal.NewFromInt(100)))

		assert.Equal(t, ledger.KindTransferOut, out.Kind)
		assert.Equal(t, ledger.KindTransferIn, in.Kind)
		assert.True(t, out.Amount.Equal(in.Amount))
		assert.True(t, out.Balance.Equal(decimal.NewFromInt(900)))
		assert.True(t, in.Balance.Equal(decimal.NewFromInt(100)))

		sHist := savings.History()
		cHist := current.History()
		assert.Equal(t, ledger.KindTransferOut, sHist[len(sHist)-1].Kind)
		assert.Equal(t, ledger.KindTransferIn, cHist[len(cHist)-1].Kind)
	})

	t.Run("should reject a self-transfer", func(t *testing.T) {
		bank := newTestBank(t)
		acct := openAccount(t, bank, ledger.Current, 100)

		_, _, err := bank.Transfer(context.Background(), acct.Number(), acct.Number(), decimal.NewFromInt(10))
		require.ErrorIs(t, err, ledger.ErrInvalidOperation)
		assert.True(t, acct.Balance().Equal(decimal.NewFromInt(100)))
	})

	t.Run("should reject non-positive amounts", func(t *testing.T) {
		bank := newTestBank(t)
		a := openAccount(t, bank, ledger.Current, 100)
		b := openAccount(t, bank, ledger.Current, 0)

		_, _, err := bank.Transfer(context.Background(), a.Number(), b.Number(), decimal.Zero)
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	})

	t.Run("should apply the sender's policy gate and change nothing on rejection", func(t *testing.T) {
		bank := newTestBank(t)
		savings := openAccount(t, bank, ledger.Savings, 1000)
		current := openAccount(t, bank, ledger.Current, 0)

		_, _, err := bank.Transfer(context.Background(), savings.Number(), current.Number(), decimal.NewFromInt(600))
		require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

		assert.True(t, savings.Balance().Equal(decimal.NewFromInt(1000)))
		assert.True(t, current.Balance().IsZero())
		assert.Len(t, savings.History(), 1)
		assert.Empty(t, current.History())
	})

	t.Run("should fail for unknown accounts", func(t *testing.T) {
		bank := newTestBank(t)
		a := openAccount(t, bank, ledger.Current, 100)

		_, _, err := bank.Transfer(context.Background(), a.Number(), "nope", decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
		_, _, err = bank.Transfer(context.Background(), "nope", a.Number(), decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	})
}

func TestTransferConcurrency(t *testing.T) {
	t.Run("opposite-direction transfers should conserve the total and terminate", func(t *testing.T) {
		bank := newTestBank(t)
		a := openAccount(t, bank, ledger.Current, 5000)
		b := openAccount(t, bank, ledger.Current, 5000)

		const workersPerDirection = 8
		const transfersPerWorker = 50
		amount := decimal.NewFromInt(7)

		var wg sync.WaitGroup
		for w := 0; w < workersPerDirection; w++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := 0; i < transfersPerWorker; i++ {
					bank.Transfer(context.Background(), a.Number(), b.Number(), amount)
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < transfersPerWorker; i++ {
					bank.Transfer(context.Background(), b.Number(), a.Number(), amount)
				}
			}()
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(30 * time.Second):
			t.Fatal("transfers did not complete, likely deadlocked")
		}

		total := a.Balance().Add(b.Balance())
		assert.True(t, total.Equal(decimal.NewFromInt(10000)),
			"expected total 10000, got %s", total)

		for _, acct := range []*ledger.Account{a, b} {
			history := acct.History()
			require.NotEmpty(t, history)
			assert.True(t, acct.Balance().Equal(history[len(history)-1].Balance))
		}
	})

	t.Run("two simultaneous opposite transfers should both complete", func(t *testing.T) {
		bank := newTestBank(t)
		a := openAccount(t, bank, ledger.Current, 1000)
		b := openAccount(t, bank, ledger.Current, 1000)

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 1000; i++ {
				bank.Transfer(context.Background(), a.Number(), b.Number(), decimal.NewFromInt(1))
			}
		}()
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 1000; i++ {
				bank.Transfer(context.Background(), b.Number(), a.Number(), decimal.NewFromInt(1))
			}
		}()
		close(start)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(30 * time.Second):
			t.Fatal("opposite-direction transfers deadlocked")
		}

		assert.True(t, a.Balance().Add(b.Balance()).Equal(decimal.NewFromInt(2000)))
	})

	t.Run("concurrent deposits and withdrawals should keep the log consistent", func(t *testing.T) {
		bank := newTestBank(t)
		acct := openAccount(t, bank, ledger.Current, 0)

		var wg sync.WaitGroup
		for w := 0; w < 10; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					acct.Deposit(decimal.NewFromInt(2))
					acct.Withdraw(decimal.NewFromInt(1))
				}
			}()
		}
		wg.Wait()

		// 10 workers * 50 * (2 - 1) = 500
		assert.True(t, acct.Balance().Equal(decimal.NewFromInt(500)))

		history := acct.History()
		require.Len(t, history, 1000)
		assert.True(t, acct.Balance().Equal(history[len(history)-1].Balance))
	})
}
