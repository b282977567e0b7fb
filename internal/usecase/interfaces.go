package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// GetByIDsForUpdate locks the given accounts in ascending id order.
	// Missing ids are silently absent from the result.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	// Update overwrites owner, balance and opening balance.
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	Delete(ctx context.Context, tx Transaction, id string) error
	// List returns accounts ordered by creation. A zero limit returns all of them.
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
	// DeleteByAccount removes transfers where the account is either side.
	DeleteByAccount(ctx context.Context, tx Transaction, accountID string) error
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// ListByAccount returns entries oldest first. A zero limit returns all of them.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	SumByAccount(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error)
	DeleteByAccount(ctx context.Context, tx Transaction, accountID string) error
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	// CheckConsistency returns the sum of all balances and the sum of all
	// opening balances plus signed entry amounts.
	CheckConsistency(ctx context.Context) (totalBalance, expectedBalance decimal.Decimal, err error)
	// BalanceChecks returns, from a single snapshot, every account's recorded
	// balance next to its opening balance plus signed entries, in creation order.
	BalanceChecks(ctx context.Context) ([]BalanceCheck, error)
	// BalanceCheck is BalanceChecks for one account.
	BalanceCheck(ctx context.Context, accountID string) (BalanceCheck, error)
}

// BalanceCheck pairs an account's stored balance with the balance its
// entries imply.
type BalanceCheck struct {
	AccountID  string
	Recorded   decimal.Decimal
	Calculated decimal.Decimal
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder receives the outcome of ledger operations.
type MetricsRecorder interface {
	RecordOperation(operation string, amount decimal.Decimal, duration time.Duration, err error)
	RecordAccountCreated()
	RecordAccountDeleted()
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key so the request can be retried.
	Delete(ctx context.Context, key string) error
}
