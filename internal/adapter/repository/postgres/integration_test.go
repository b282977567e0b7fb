//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iho/bankledger/internal/domain"
	infrapg "github.com/iho/bankledger/internal/infrastructure/postgres"
	"github.com/iho/bankledger/internal/usecase"
)

type stack struct {
	pool           *pgxpool.Pool
	accounts       *usecase.AccountUseCase
	ledger         *usecase.LedgerUseCase
	entries        *usecase.EntryUseCase
	reconciliation *usecase.ReconciliationUseCase
}

func setupStack(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, infrapg.NewMigrator(dsn, zerolog.Nop()).Up())

	pool, err := infrapg.NewPool(ctx, dsn, 20, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	txManager := NewTxManager(pool)
	accountRepo := NewAccountRepository(pool)
	entryRepo := NewEntryRepository(pool)
	transferRepo := NewTransferRepository(pool)
	ledgerRepo := NewLedgerRepository(pool)
	idGen := NewULIDGenerator()

	return &stack{
		pool:           pool,
		accounts:       usecase.NewAccountUseCase(txManager, accountRepo, entryRepo, transferRepo, idGen),
		ledger:         usecase.NewLedgerUseCase(txManager, accountRepo, transferRepo, entryRepo, idGen),
		entries:        usecase.NewEntryUseCase(accountRepo, entryRepo, transferRepo),
		reconciliation: usecase.NewReconciliationUseCase(ledgerRepo),
	}
}

func createAccount(t *testing.T, s *stack, owner string, balance int64) *domain.Account {
	t.Helper()
	account, err := s.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Owner:   owner,
		Balance: decimal.NewFromInt(balance),
	})
	require.NoError(t, err)
	return account
}

func TestIntegration_TransferScenario(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()

	john := createAccount(t, s, "John Doe", 1000)
	pasang := createAccount(t, s, "Pasang", 500)

	from, err := s.ledger.Transfer(ctx, usecase.TransferInput{
		FromAccountID: john.ID,
		ToAccountID:   pasang.ID,
		Amount:        decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.True(t, from.Balance.Equal(decimal.NewFromInt(800)))

	to, err := s.accounts.GetAccount(ctx, pasang.ID)
	require.NoError(t, err)
	assert.True(t, to.Balance.Equal(decimal.NewFromInt(700)))

	johnEntries, err := s.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: john.ID})
	require.NoError(t, err)
	require.Len(t, johnEntries, 1)
	assert.Equal(t, domain.EntryTypeTransferOut, johnEntries[0].Type)
	assert.True(t, johnEntries[0].BalanceAfter.Equal(decimal.NewFromInt(800)))

	pasangEntries, err := s.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: pasang.ID})
	require.NoError(t, err)
	require.Len(t, pasangEntries, 1)
	assert.Equal(t, domain.EntryTypeTransferIn, pasangEntries[0].Type)
	assert.Equal(t, johnEntries[0].TransferID, pasangEntries[0].TransferID)

	_, err = s.ledger.Transfer(ctx, usecase.TransferInput{
		FromAccountID: pasang.ID,
		ToAccountID:   john.ID,
		Amount:        decimal.NewFromInt(5000),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	report, err := s.reconciliation.GenerateReconciliationReport(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent())
}

func TestIntegration_DepositWithdrawHistory(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()

	account := createAccount(t, s, "Kaushal", 0)

	_, err := s.ledger.Deposit(ctx, account.ID, decimal.RequireFromString("150.25"))
	require.NoError(t, err)
	updated, err := s.ledger.Withdraw(ctx, account.ID, decimal.RequireFromString("50.25"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(100)))

	_, err = s.ledger.Withdraw(ctx, account.ID, decimal.NewFromInt(101))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	entries, err := s.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: account.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EntryTypeDeposit, entries[0].Type)
	assert.Equal(t, domain.EntryTypeWithdraw, entries[1].Type)
	assert.True(t, entries[1].BalanceAfter.Equal(decimal.NewFromInt(100)))

	result, err := s.reconciliation.ReconcileAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, result.IsReconciled)
}

func TestIntegration_ConcurrentOppositeTransfers(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()

	a := createAccount(t, s, "A", 1000)
	b := createAccount(t, s, "B", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.ledger.Transfer(ctx, usecase.TransferInput{FromAccountID: a.ID, ToAccountID: b.ID, Amount: decimal.NewFromInt(10)})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.ledger.Transfer(ctx, usecase.TransferInput{FromAccountID: b.ID, ToAccountID: a.ID, Amount: decimal.NewFromInt(7)})
		}()
	}
	wg.Wait()

	gotA, err := s.accounts.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := s.accounts.GetAccount(ctx, b.ID)
	require.NoError(t, err)

	assert.True(t, gotA.Balance.Add(gotB.Balance).Equal(decimal.NewFromInt(2000)))
	require.NoError(t, s.reconciliation.CheckLedgerConsistency(ctx))
}

func TestIntegration_ConcurrentDepositsAreNotLost(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()

	const n = 25
	acc := createAccount(t, s, "Busy", 100)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	want := decimal.NewFromInt(100)
	for i := 0; i < n; i++ {
		amount := decimal.NewFromInt(int64(i + 1))
		want = want.Add(amount)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ledger.Deposit(ctx, acc.ID, amount)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.accounts.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(want), "balance %s, want %s", got.Balance, want)

	entries, err := s.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: acc.ID, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, entries, n)

	result, err := s.reconciliation.ReconcileAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, result.IsReconciled)
}

func TestIntegration_ReconcileDuringTransfers(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()

	a := createAccount(t, s, "A", 1000)
	b := createAccount(t, s, "B", 1000)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, _ = s.ledger.Transfer(ctx, usecase.TransferInput{FromAccountID: a.ID, ToAccountID: b.ID, Amount: decimal.NewFromInt(3)})
			_, _ = s.ledger.Deposit(ctx, a.ID, decimal.NewFromInt(1))
		}
		close(done)
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		results, err := s.reconciliation.ReconcileAllAccounts(ctx)
		require.NoError(t, err)
		for _, r := range results {
			assert.True(t, r.IsReconciled, "account %s drifted by %s", r.AccountID, r.Difference)
		}
	}
	wg.Wait()
}

func TestIntegration_UpdateAndDeleteCascade(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()

	a := createAccount(t, s, "A", 100)
	b := createAccount(t, s, "B", 100)

	_, err := s.ledger.Transfer(ctx, usecase.TransferInput{FromAccountID: a.ID, ToAccountID: b.ID, Amount: decimal.NewFromInt(30)})
	require.NoError(t, err)

	balance := decimal.NewFromInt(500)
	updated, err := s.accounts.UpdateAccount(ctx, b.ID, usecase.UpdateAccountInput{Owner: "Bee", Balance: &balance})
	require.NoError(t, err)
	assert.Equal(t, "Bee", updated.Owner)
	assert.True(t, updated.Balance.Equal(balance))

	require.NoError(t, s.accounts.DeleteAccount(ctx, a.ID))

	_, err = s.accounts.GetAccount(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	transfers, err := s.entries.GetTransfersByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: b.ID})
	require.NoError(t, err)
	assert.Empty(t, transfers)

	entries, err := s.entries.GetEntriesByAccount(ctx, usecase.GetEntriesByAccountInput{AccountID: b.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].TransferID)

	require.NoError(t, s.reconciliation.CheckLedgerConsistency(ctx))
}

func TestIntegration_ListAccountsPagination(t *testing.T) {
	s := setupStack(t)
	ctx := context.Background()

	for _, owner := range []string{"one", "two", "three"} {
		createAccount(t, s, owner, 0)
	}

	all, err := s.accounts.ListAccounts(ctx, usecase.ListAccountsInput{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "one", all[0].Owner)

	page, err := s.accounts.ListAccounts(ctx, usecase.ListAccountsInput{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "two", page[0].Owner)
}
