package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/testutil"
	"github.com/iho/bankledger/internal/usecase"
)

type engine struct {
	store    *testutil.MemStore
	accounts *usecase.AccountUseCase
	ledger   *usecase.LedgerUseCase
	entries  *usecase.EntryUseCase
	recon    *usecase.ReconciliationUseCase
}

func newEngine() *engine {
	store := testutil.NewMemStore()
	idGen := testutil.NewSequenceIDGenerator("id")

	return &engine{
		store:    store,
		accounts: usecase.NewAccountUseCase(store, store.Accounts(), store.Entries(), store.Transfers(), idGen),
		ledger:   usecase.NewLedgerUseCase(store, store.Accounts(), store.Transfers(), store.Entries(), idGen),
		entries:  usecase.NewEntryUseCase(store.Accounts(), store.Entries(), store.Transfers()),
		recon:    usecase.NewReconciliationUseCase(store.Ledger()),
	}
}

func (e *engine) open(t *testing.T, owner, balance string) *domain.Account {
	t.Helper()
	acc, err := e.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Owner:   owner,
		Balance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return acc
}

func (e *engine) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	acc, err := e.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func (e *engine) assertReconciled(t *testing.T) {
	t.Helper()
	report, err := e.recon.GenerateReconciliationReport(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent(), "discrepancies: %+v", report.Discrepancies)
}

func TestEngine_TransferScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	john := e.open(t, "John Doe", "1000")
	pasang := e.open(t, "Pasang Gurung", "1000")
	kaushal := e.open(t, "Kaushal Gurung", "500")

	from, err := e.ledger.Transfer(ctx, usecase.TransferInput{
		FromAccountID: pasang.ID,
		ToAccountID:   kaushal.ID,
		Amount:        decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	assert.Equal(t, pasang.ID, from.ID)
	assert.True(t, from.Balance.Equal(decimal.NewFromInt(800)))
	assert.True(t, e.balance(t, kaushal.ID).Equal(decimal.NewFromInt(700)))
	assert.True(t, e.balance(t, john.ID).Equal(decimal.NewFromInt(1000)))

	out, err := e.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: pasang.ID})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.EntryTypeTransferOut, out[0].Type)
	assert.True(t, out[0].BalanceAfter.Equal(decimal.NewFromInt(800)))

	in, err := e.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: kaushal.ID})
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, domain.EntryTypeTransferIn, in[0].Type)
	assert.Equal(t, out[0].TransferID, in[0].TransferID)

	transfers, err := e.entries.GetTransfersByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: kaushal.ID})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, pasang.ID, transfers[0].FromAccountID)

	e.assertReconciled(t)
}

func TestEngine_DepositWithdrawHistory(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	acc := e.open(t, "John Doe", "0")

	_, err := e.ledger.Deposit(ctx, acc.ID, decimal.RequireFromString("100.50"))
	require.NoError(t, err)
	_, err = e.ledger.Withdraw(ctx, acc.ID, decimal.RequireFromString("0.50"))
	require.NoError(t, err)

	_, err = e.ledger.Withdraw(ctx, acc.ID, decimal.RequireFromString("100.01"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	entries, err := e.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: acc.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EntryTypeDeposit, entries[0].Type)
	assert.Equal(t, domain.EntryTypeWithdraw, entries[1].Type)
	assert.True(t, entries[1].BalanceAfter.Equal(decimal.NewFromInt(100)))
	assert.True(t, e.balance(t, acc.ID).Equal(decimal.NewFromInt(100)))

	e.assertReconciled(t)
}

func TestEngine_FailedTransferLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	a := e.open(t, "A", "100")
	b := e.open(t, "B", "0")

	boom := errors.New("write failed")
	e.store.FailOn(testutil.OpEntryCreate, boom)

	_, err := e.ledger.Transfer(ctx, usecase.TransferInput{FromAccountID: a.ID, ToAccountID: b.ID, Amount: decimal.NewFromInt(40)})
	require.ErrorIs(t, err, boom)

	e.store.FailOn(testutil.OpEntryCreate, nil)

	assert.True(t, e.balance(t, a.ID).Equal(decimal.NewFromInt(100)))
	assert.True(t, e.balance(t, b.ID).IsZero())

	transfers, err := e.entries.GetTransfersByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: a.ID})
	require.NoError(t, err)
	assert.Empty(t, transfers)
	assert.Equal(t, int64(0), e.store.Commits())

	e.assertReconciled(t)
}

func TestEngine_ConcurrentDepositsAreNotLost(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	acc := e.open(t, "John Doe", "0")

	const workers = 50

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ledger.Deposit(ctx, acc.ID, decimal.NewFromInt(10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, e.balance(t, acc.ID).Equal(decimal.NewFromInt(500)))

	entries, err := e.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: acc.ID})
	require.NoError(t, err)
	assert.Len(t, entries, workers)
}

func TestEngine_ConcurrentOppositeTransfersConserveMoney(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	a := e.open(t, "A", "1000")
	b := e.open(t, "B", "1000")

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			from, to := a.ID, b.ID
			if i%2 == 1 {
				from, to = to, from
			}
			_, err := e.ledger.Transfer(ctx, usecase.TransferInput{FromAccountID: from, ToAccountID: to, Amount: decimal.NewFromInt(7)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	total := e.balance(t, a.ID).Add(e.balance(t, b.ID))
	assert.True(t, total.Equal(decimal.NewFromInt(2000)), "total = %s", total)
	e.assertReconciled(t)
}

func TestEngine_WithdrawalsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	acc := e.open(t, "A", "100")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ledger.Withdraw(ctx, acc.ID, decimal.NewFromInt(10))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			fail++
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 20, fail)
	assert.True(t, e.balance(t, acc.ID).IsZero())
}

func TestEngine_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	a := e.open(t, "A", "100")
	b := e.open(t, "B", "100")

	_, err := e.ledger.Transfer(ctx, usecase.TransferInput{FromAccountID: a.ID, ToAccountID: b.ID, Amount: decimal.NewFromInt(30)})
	require.NoError(t, err)

	newBalance := decimal.NewFromInt(5)
	updated, err := e.accounts.UpdateAccount(ctx, b.ID, usecase.UpdateAccountInput{Owner: "B renamed", Balance: &newBalance})
	require.NoError(t, err)
	assert.Equal(t, "B renamed", updated.Owner)
	assert.True(t, updated.OpeningBalance.Equal(decimal.NewFromInt(-25)))
	e.assertReconciled(t)

	require.NoError(t, e.accounts.DeleteAccount(ctx, a.ID))

	_, err = e.accounts.GetAccount(ctx, a.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = e.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: a.ID})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	// counterparty history stays, detached from the removed transfer
	entries, err := e.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: b.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].TransferID)

	transfers, err := e.entries.GetTransfersByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: b.ID})
	require.NoError(t, err)
	assert.Empty(t, transfers)

	e.assertReconciled(t)

	err = e.accounts.DeleteAccount(ctx, a.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestEngine_ListAccountsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	var ids []string
	for _, owner := range []string{"first", "second", "third"} {
		ids = append(ids, e.open(t, owner, "0").ID)
	}

	all, err := e.accounts.ListAccounts(ctx, usecase.ListAccountsInput{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, acc := range all {
		assert.Equal(t, ids[i], acc.ID)
	}

	paged, err := e.accounts.ListAccounts(ctx, usecase.ListAccountsInput{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, ids[1], paged[0].ID)
}

func TestEngine_ReconciliationDetectsDrift(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	acc := e.open(t, "A", "10")

	_, err := e.ledger.Deposit(ctx, acc.ID, decimal.NewFromInt(5))
	require.NoError(t, err)

	e.store.SetBalance(acc.ID, decimal.NewFromInt(99))

	result, err := e.recon.ReconcileAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.False(t, result.IsReconciled)
	assert.True(t, result.CalculatedBalance.Equal(decimal.NewFromInt(15)))
	assert.True(t, result.Difference.Equal(decimal.NewFromInt(84)))

	report, err := e.recon.GenerateReconciliationReport(ctx)
	require.NoError(t, err)
	assert.False(t, report.Consistent())
	assert.False(t, report.LedgerConsistent)
	require.Len(t, report.Discrepancies, 1)

	err = e.recon.CheckLedgerConsistency(ctx)
	require.ErrorIs(t, err, usecase.ErrInconsistentLedger)
}

func TestEngine_CreditCannotPassMaxBalance(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	rich := e.open(t, "Rich", "0")
	payer := e.open(t, "Payer", "100")
	near := domain.MaxBalance.Sub(decimal.NewFromInt(5))
	e.store.SetBalance(rich.ID, near)

	_, err := e.ledger.Deposit(ctx, rich.ID, decimal.NewFromInt(10))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = e.ledger.Transfer(ctx, usecase.TransferInput{
		FromAccountID: payer.ID,
		ToAccountID:   rich.ID,
		Amount:        decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	assert.True(t, e.balance(t, rich.ID).Equal(near))
	assert.True(t, e.balance(t, payer.ID).Equal(decimal.NewFromInt(100)))

	entries, err := e.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: payer.ID})
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = e.ledger.Deposit(ctx, rich.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
}
