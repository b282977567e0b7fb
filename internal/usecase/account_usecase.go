package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	transferRepo TransferRepository
	idGen        IDGenerator
	logger       zerolog.Logger
	metrics      MetricsRecorder
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	transferRepo TransferRepository,
	idGen IDGenerator,
	opts ...Option,
) *AccountUseCase {
	o := applyOptions(opts)

	return &AccountUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		idGen:        idGen,
		logger:       o.logger,
		metrics:      o.metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Owner   string
	Balance decimal.Decimal
}

// CreateAccount creates a new account. The initial balance is recorded as the
// opening balance; no entry is written for it.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	owner, err := domain.NormalizeOwner(input.Owner)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateBalance(input.Balance); err != nil {
		return nil, err
	}

	ts := now()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Owner:          owner,
		Balance:        input.Balance,
		OpeningBalance: input.Balance,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.metrics.RecordAccountCreated()

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts in creation order. A zero limit lists all accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// UpdateAccountInput represents input for overwriting an account.
type UpdateAccountInput struct {
	Owner   string
	Balance *decimal.Decimal
}

// UpdateAccount overwrites owner and balance. No entry is written; the opening
// balance is moved so the entry history still adds up to the new balance.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	owner, err := domain.NormalizeOwner(input.Owner)
	if err != nil {
		return nil, err
	}

	if input.Balance == nil {
		return nil, fmt.Errorf("%w: balance is required", domain.ErrInvalidBalance)
	}

	if err := domain.ValidateBalance(*input.Balance); err != nil {
		return nil, err
	}

	var account *domain.Account

	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		acc, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		sum, err := uc.entryRepo.SumByAccount(ctx, tx, id)
		if err != nil {
			return err
		}

		acc.Owner = owner
		acc.Rebase(*input.Balance, sum)
		acc.UpdatedAt = now()

		if err := uc.accountRepo.Update(ctx, tx, acc); err != nil {
			return err
		}

		account = acc

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("balance", domain.FormatAmount(account.Balance)).
		Msg("account overwritten")

	return account, nil
}

// DeleteAccount removes an account together with its entries and every
// transfer it took part in. Entries of counterparties are kept.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	err := runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id); err != nil {
			return err
		}

		if err := uc.entryRepo.DeleteByAccount(ctx, tx, id); err != nil {
			return err
		}

		if err := uc.transferRepo.DeleteByAccount(ctx, tx, id); err != nil {
			return err
		}

		return uc.accountRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	uc.metrics.RecordAccountDeleted()
	uc.logger.Info().Str("account_id", id).Msg("account deleted")

	return nil
}
