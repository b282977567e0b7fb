package postgres

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{
		queries: generated.New(db),
	}
}

// Create creates a new transfer.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateTransfer(ctx, generated.CreateTransferParams{
		ID:            transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        decimalToNumeric(transfer.Amount),
		CreatedAt:     timeToPgTimestamptz(transfer.CreatedAt),
	})
}

// ListByAccount lists transfers where the account is either side.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	l, o := pagination(limit, offset)

	rows, err := r.queries.ListTransfersByAccount(ctx, generated.ListTransfersByAccountParams{
		AccountID: accountID,
		RowLimit:  l,
		RowOffset: o,
	})
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, rowToTransfer(row))
	}

	return transfers, nil
}

// DeleteByAccount removes every transfer the account took part in.
// Entries of the other side keep existing with a NULL transfer_id.
func (r *TransferRepository) DeleteByAccount(ctx context.Context, tx usecase.Transaction, accountID string) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.DeleteTransfersByAccount(ctx, accountID)
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:            row.ID,
		FromAccountID: row.FromAccountID,
		ToAccountID:   row.ToAccountID,
		Amount:        numericToDecimal(row.Amount),
		CreatedAt:     row.CreatedAt.Time.UTC(),
	}
}
