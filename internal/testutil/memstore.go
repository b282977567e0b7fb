// Package testutil provides in-memory fakes of the storage ports for tests
// that exercise the use cases without a database.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// Operation names accepted by MemStore.FailOn.
const (
	OpAccountUpdate  = "accounts.update"
	OpEntryCreate    = "entries.create"
	OpTransferCreate = "transfers.create"
)

var errTxDone = errors.New("transaction already closed")

type state struct {
	accounts  map[string]domain.Account
	entries   []domain.Entry
	transfers []domain.Transfer
}

func (s *state) clone() *state {
	c := &state{
		accounts:  make(map[string]domain.Account, len(s.accounts)),
		entries:   append([]domain.Entry(nil), s.entries...),
		transfers: append([]domain.Transfer(nil), s.transfers...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	return c
}

// MemStore is a serializable in-memory store. A transaction holds the store
// exclusively from Begin until Commit or Rollback; Rollback restores the
// snapshot taken at Begin.
type MemStore struct {
	sem   chan struct{}
	data  *state
	fail  map[string]error
	failM sync.Mutex

	commits   atomic.Int64
	rollbacks atomic.Int64
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		sem: make(chan struct{}, 1),
		data: &state{
			accounts: make(map[string]domain.Account),
		},
		fail: make(map[string]error),
	}
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
func (s *MemStore) FailOn(op string, err error) {
	s.failM.Lock()
	defer s.failM.Unlock()

	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *MemStore) injected(op string) error {
	s.failM.Lock()
	defer s.failM.Unlock()
	return s.fail[op]
}

// Commits returns the number of committed transactions.
func (s *MemStore) Commits() int64 { return s.commits.Load() }

// Rollbacks returns the number of transactions that ended without a commit.
func (s *MemStore) Rollbacks() int64 { return s.rollbacks.Load() }

func (s *MemStore) lock(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemStore) unlock() { <-s.sem }

// Begin implements usecase.TransactionManager.
func (s *MemStore) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	return &memTx{store: s, snapshot: s.data.clone()}, nil
}

type memTx struct {
	store    *MemStore
	snapshot *state
	done     bool
}

func (t *memTx) Commit(context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.commits.Add(1)
	t.store.unlock()
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.data = t.snapshot
	t.store.rollbacks.Add(1)
	t.store.unlock()
	return nil
}

func (s *MemStore) checkTx(tx usecase.Transaction) error {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != s {
		return fmt.Errorf("foreign transaction %T", tx)
	}
	if mt.done {
		return errTxDone
	}
	return nil
}

// read runs fn with the store locked outside of any transaction.
func (s *MemStore) read(ctx context.Context, fn func(*state) error) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()
	return fn(s.data)
}

// Accounts returns the store's usecase.AccountRepository.
func (s *MemStore) Accounts() *AccountRepo { return &AccountRepo{s: s} }

// Entries returns the store's usecase.EntryRepository.
func (s *MemStore) Entries() *EntryRepo { return &EntryRepo{s: s} }

// Transfers returns the store's usecase.TransferRepository.
func (s *MemStore) Transfers() *TransferRepo { return &TransferRepo{s: s} }

// Ledger returns the store's usecase.LedgerRepository.
func (s *MemStore) Ledger() *LedgerRepo { return &LedgerRepo{s: s} }

// SetBalance overwrites a stored balance without touching entries, to
// simulate corruption in reconciliation tests.
func (s *MemStore) SetBalance(id string, balance decimal.Decimal) {
	_ = s.read(context.Background(), func(st *state) error {
		if a, ok := st.accounts[id]; ok {
			a.Balance = balance
			st.accounts[id] = a
		}
		return nil
	})
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
}

// AccountRepo is the in-memory account repository.
type AccountRepo struct{ s *MemStore }

func (r *AccountRepo) Create(ctx context.Context, account *domain.Account) error {
	return r.s.read(ctx, func(st *state) error {
		if _, ok := st.accounts[account.ID]; ok {
			return fmt.Errorf("duplicate account id %s", account.ID)
		}
		st.accounts[account.ID] = *account
		return nil
	})
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var out *domain.Account
	err := r.s.read(ctx, func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return notFound(id)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *AccountRepo) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if err := r.s.checkTx(tx); err != nil {
		return nil, err
	}
	a, ok := r.s.data.accounts[id]
	if !ok {
		return nil, notFound(id)
	}
	return &a, nil
}

func (r *AccountRepo) GetByIDsForUpdate(_ context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if err := r.s.checkTx(tx); err != nil {
		return nil, err
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	out := make([]*domain.Account, 0, len(sorted))
	for _, id := range sorted {
		if a, ok := r.s.data.accounts[id]; ok {
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r *AccountRepo) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if err := r.s.checkTx(tx); err != nil {
		return err
	}
	if err := r.s.injected(OpAccountUpdate); err != nil {
		return err
	}
	a, ok := r.s.data.accounts[id]
	if !ok {
		return notFound(id)
	}
	a.Balance = balance
	a.UpdatedAt = updatedAt
	r.s.data.accounts[id] = a
	return nil
}

func (r *AccountRepo) Update(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	if err := r.s.checkTx(tx); err != nil {
		return err
	}
	if err := r.s.injected(OpAccountUpdate); err != nil {
		return err
	}
	a, ok := r.s.data.accounts[account.ID]
	if !ok {
		return notFound(account.ID)
	}
	a.Owner = account.Owner
	a.Balance = account.Balance
	a.OpeningBalance = account.OpeningBalance
	a.UpdatedAt = account.UpdatedAt
	r.s.data.accounts[account.ID] = a
	return nil
}

func (r *AccountRepo) Delete(_ context.Context, tx usecase.Transaction, id string) error {
	if err := r.s.checkTx(tx); err != nil {
		return err
	}
	if _, ok := r.s.data.accounts[id]; !ok {
		return notFound(id)
	}
	delete(r.s.data.accounts, id)
	return nil
}

func (r *AccountRepo) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	var out []*domain.Account
	err := r.s.read(ctx, func(st *state) error {
		out = page(sortedAccounts(st), limit, offset)
		return nil
	})
	return out, err
}

// sortedAccounts copies the accounts in (created_at, id) order.
func sortedAccounts(st *state) []*domain.Account {
	all := make([]*domain.Account, 0, len(st.accounts))
	for _, a := range st.accounts {
		a := a
		all = append(all, &a)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all
}

// EntryRepo is the in-memory entry repository. Entries keep insertion order.
type EntryRepo struct{ s *MemStore }

func (r *EntryRepo) Create(_ context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if err := r.s.checkTx(tx); err != nil {
		return err
	}
	if err := r.s.injected(OpEntryCreate); err != nil {
		return err
	}
	r.s.data.entries = append(r.s.data.entries, *entry)
	return nil
}

func (r *EntryRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	var out []*domain.Entry
	err := r.s.read(ctx, func(st *state) error {
		out = page(entriesOf(st, accountID), limit, offset)
		return nil
	})
	return out, err
}

func (r *EntryRepo) SumByAccount(_ context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	if err := r.s.checkTx(tx); err != nil {
		return decimal.Zero, err
	}
	return domain.SumSigned(entriesOf(r.s.data, accountID)), nil
}

func (r *EntryRepo) DeleteByAccount(_ context.Context, tx usecase.Transaction, accountID string) error {
	if err := r.s.checkTx(tx); err != nil {
		return err
	}
	kept := r.s.data.entries[:0]
	for _, e := range r.s.data.entries {
		if e.AccountID != accountID {
			kept = append(kept, e)
		}
	}
	r.s.data.entries = kept
	return nil
}

func entriesOf(st *state, accountID string) []*domain.Entry {
	out := make([]*domain.Entry, 0)
	for _, e := range st.entries {
		if e.AccountID == accountID {
			e := e
			out = append(out, &e)
		}
	}
	return out
}

// TransferRepo is the in-memory transfer repository.
type TransferRepo struct{ s *MemStore }

func (r *TransferRepo) Create(_ context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if err := r.s.checkTx(tx); err != nil {
		return err
	}
	if err := r.s.injected(OpTransferCreate); err != nil {
		return err
	}
	r.s.data.transfers = append(r.s.data.transfers, *transfer)
	return nil
}

func (r *TransferRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	var out []*domain.Transfer
	err := r.s.read(ctx, func(st *state) error {
		all := make([]*domain.Transfer, 0)
		for _, t := range st.transfers {
			if t.FromAccountID == accountID || t.ToAccountID == accountID {
				t := t
				all = append(all, &t)
			}
		}
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// DeleteByAccount removes the account's transfers and detaches the
// counterparty entries that referenced them.
func (r *TransferRepo) DeleteByAccount(_ context.Context, tx usecase.Transaction, accountID string) error {
	if err := r.s.checkTx(tx); err != nil {
		return err
	}
	removed := make(map[string]bool)
	kept := r.s.data.transfers[:0]
	for _, t := range r.s.data.transfers {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			removed[t.ID] = true
			continue
		}
		kept = append(kept, t)
	}
	r.s.data.transfers = kept

	for i := range r.s.data.entries {
		if removed[r.s.data.entries[i].TransferID] {
			r.s.data.entries[i].TransferID = ""
		}
	}
	return nil
}

// LedgerRepo is the in-memory ledger repository.
type LedgerRepo struct{ s *MemStore }

func (r *LedgerRepo) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	total, expected := decimal.Zero, decimal.Zero
	err := r.s.read(ctx, func(st *state) error {
		for _, a := range st.accounts {
			total = total.Add(a.Balance)
			expected = expected.Add(a.OpeningBalance)
		}
		for _, e := range st.entries {
			expected = expected.Add(e.SignedAmount())
		}
		return nil
	})
	return total, expected, err
}

func (r *LedgerRepo) BalanceChecks(ctx context.Context) ([]usecase.BalanceCheck, error) {
	var out []usecase.BalanceCheck
	err := r.s.read(ctx, func(st *state) error {
		for _, a := range sortedAccounts(st) {
			out = append(out, balanceCheck(st, a))
		}
		return nil
	})
	return out, err
}

func (r *LedgerRepo) BalanceCheck(ctx context.Context, accountID string) (usecase.BalanceCheck, error) {
	var out usecase.BalanceCheck
	err := r.s.read(ctx, func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return notFound(accountID)
		}
		out = balanceCheck(st, &a)
		return nil
	})
	return out, err
}

func balanceCheck(st *state, a *domain.Account) usecase.BalanceCheck {
	return usecase.BalanceCheck{
		AccountID:  a.ID,
		Recorded:   a.Balance,
		Calculated: a.OpeningBalance.Add(domain.SumSigned(entriesOf(st, a.ID))),
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// SequenceIDGenerator hands out increasing, lexically ordered ids.
type SequenceIDGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequenceIDGenerator creates a generator producing prefix-000001, prefix-000002, ...
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	return &SequenceIDGenerator{prefix: prefix}
}

// Generate implements usecase.IDGenerator.
func (g *SequenceIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.n.Add(1))
}

var (
	_ usecase.TransactionManager = (*MemStore)(nil)
	_ usecase.AccountRepository  = (*AccountRepo)(nil)
	_ usecase.EntryRepository    = (*EntryRepo)(nil)
	_ usecase.TransferRepository = (*TransferRepo)(nil)
	_ usecase.LedgerRepository   = (*LedgerRepo)(nil)
)
