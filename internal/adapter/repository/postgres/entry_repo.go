package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create creates a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateEntry(ctx, generated.CreateEntryParams{
		ID:           entry.ID,
		AccountID:    entry.AccountID,
		TransferID:   stringToPgText(entry.TransferID),
		EntryType:    string(entry.Type),
		Amount:       decimalToNumeric(entry.Amount),
		BalanceAfter: decimalToNumeric(entry.BalanceAfter),
		CreatedAt:    timeToPgTimestamptz(entry.CreatedAt),
	})
}

// ListByAccount retrieves entries of an account, oldest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	l, o := pagination(limit, offset)

	rows, err := r.queries.ListEntriesByAccount(ctx, generated.ListEntriesByAccountParams{
		AccountID: accountID,
		RowLimit:  l,
		RowOffset: o,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// SumByAccount returns the signed sum of the account's entries.
func (r *EntryRepository) SumByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return decimal.Zero, err
	}

	total, err := queries.SumEntriesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// DeleteByAccount removes all entries of an account.
func (r *EntryRepository) DeleteByAccount(ctx context.Context, tx usecase.Transaction, accountID string) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.DeleteEntriesByAccount(ctx, accountID)
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:           row.ID,
		AccountID:    row.AccountID,
		TransferID:   row.TransferID.String,
		Type:         domain.EntryType(row.EntryType),
		Amount:       numericToDecimal(row.Amount),
		BalanceAfter: numericToDecimal(row.BalanceAfter),
		CreatedAt:    row.CreatedAt.Time.UTC(),
	}
}
