package usecase

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
)

// EntryUseCase serves read-only history lookups.
type EntryUseCase struct {
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	transferRepo TransferRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(accountRepo AccountRepository, entryRepo EntryRepository, transferRepo TransferRepository) *EntryUseCase {
	return &EntryUseCase{
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
	}
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists entries for an account, oldest first.
// It fails with domain.ErrAccountNotFound for unknown accounts.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Entry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// GetTransfersByAccount lists transfers the account took part in, on either side.
func (uc *EntryUseCase) GetTransfersByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Transfer, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transferRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}
