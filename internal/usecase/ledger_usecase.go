package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// LedgerUseCase moves money: deposits, withdrawals and transfers.
// Each operation is a single transaction over row-locked accounts.
type LedgerUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	entryRepo    EntryRepository
	idGen        IDGenerator
	logger       zerolog.Logger
	metrics      MetricsRecorder
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	opts ...Option,
) *LedgerUseCase {
	o := applyOptions(opts)

	return &LedgerUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		entryRepo:    entryRepo,
		idGen:        idGen,
		logger:       o.logger,
		metrics:      o.metrics,
	}
}

// Deposit credits amount to the account and appends a DEPOSIT entry.
func (uc *LedgerUseCase) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	return uc.move(ctx, OperationDeposit, domain.EntryTypeDeposit, accountID, amount)
}

// Withdraw debits amount from the account and appends a WITHDRAW entry.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	return uc.move(ctx, OperationWithdraw, domain.EntryTypeWithdraw, accountID, amount)
}

func (uc *LedgerUseCase) move(
	ctx context.Context,
	operation string,
	entryType domain.EntryType,
	accountID string,
	amount decimal.Decimal,
) (*domain.Account, error) {
	start := time.Now()

	var account *domain.Account

	err := runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		acc, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		// The account is loaded first so an unknown id is reported before a bad amount.
		if err := domain.ValidateAmount(amount); err != nil {
			return err
		}

		var newBalance decimal.Decimal
		if entryType.IsCredit() {
			if err := acc.ValidateCredit(amount); err != nil {
				return err
			}
			newBalance = acc.ApplyCredit(amount)
		} else {
			if err := acc.ValidateDebit(amount); err != nil {
				return fmt.Errorf("%w: balance %s, requested %s", err, domain.FormatAmount(acc.Balance), domain.FormatAmount(amount))
			}
			newBalance = acc.ApplyDebit(amount)
		}

		ts := now()

		if err := uc.accountRepo.UpdateBalance(ctx, tx, acc.ID, newBalance, ts); err != nil {
			return err
		}

		entry := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    acc.ID,
			Type:         entryType,
			Amount:       amount,
			BalanceAfter: newBalance,
			CreatedAt:    ts,
		}
		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		acc.Balance = newBalance
		acc.UpdatedAt = ts
		account = acc

		return nil
	})

	uc.metrics.RecordOperation(operation, amount, time.Since(start), err)

	if err != nil {
		return nil, err
	}

	uc.logger.Debug().
		Str("operation", operation).
		Str("account_id", account.ID).
		Str("amount", domain.FormatAmount(amount)).
		Str("balance", domain.FormatAmount(account.Balance)).
		Msg("ledger operation committed")

	return account, nil
}

// TransferInput represents input for a transfer between two accounts.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// Transfer moves amount from one account to another atomically, records the
// transfer and appends TRANSFER_OUT and TRANSFER_IN entries. It returns the
// source account after the debit.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Account, error) {
	start := time.Now()

	account, err := uc.transfer(ctx, input)

	uc.metrics.RecordOperation(OperationTransfer, input.Amount, time.Since(start), err)

	if err != nil {
		return nil, err
	}

	uc.logger.Debug().
		Str("operation", OperationTransfer).
		Str("from_account_id", input.FromAccountID).
		Str("to_account_id", input.ToAccountID).
		Str("amount", domain.FormatAmount(input.Amount)).
		Msg("ledger operation committed")

	return account, nil
}

func (uc *LedgerUseCase) transfer(ctx context.Context, input TransferInput) (*domain.Account, error) {
	transfer := &domain.Transfer{
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	// Sorted ids give every transfer the same lock order.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	var from *domain.Account

	err := runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}

		byID := make(map[string]*domain.Account, len(accounts))
		for _, a := range accounts {
			byID[a.ID] = a
		}

		fromAcc := byID[input.FromAccountID]
		if fromAcc == nil {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, input.FromAccountID)
		}

		toAcc := byID[input.ToAccountID]
		if toAcc == nil {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, input.ToAccountID)
		}

		if err := fromAcc.ValidateDebit(input.Amount); err != nil {
			return fmt.Errorf("%w: balance %s, requested %s", err, domain.FormatAmount(fromAcc.Balance), domain.FormatAmount(input.Amount))
		}

		if err := toAcc.ValidateCredit(input.Amount); err != nil {
			return err
		}

		ts := now()
		fromBalance := fromAcc.ApplyDebit(input.Amount)
		toBalance := toAcc.ApplyCredit(input.Amount)

		if err := uc.accountRepo.UpdateBalance(ctx, tx, fromAcc.ID, fromBalance, ts); err != nil {
			return err
		}

		if err := uc.accountRepo.UpdateBalance(ctx, tx, toAcc.ID, toBalance, ts); err != nil {
			return err
		}

		transfer.ID = uc.idGen.Generate()
		transfer.CreatedAt = ts

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		out := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    fromAcc.ID,
			TransferID:   transfer.ID,
			Type:         domain.EntryTypeTransferOut,
			Amount:       input.Amount,
			BalanceAfter: fromBalance,
			CreatedAt:    ts,
		}
		if err := uc.entryRepo.Create(ctx, tx, out); err != nil {
			return err
		}

		in := &domain.Entry{
			ID:           uc.idGen.Generate(),
			AccountID:    toAcc.ID,
			TransferID:   transfer.ID,
			Type:         domain.EntryTypeTransferIn,
			Amount:       input.Amount,
			BalanceAfter: toBalance,
			CreatedAt:    ts,
		}
		if err := uc.entryRepo.Create(ctx, tx, in); err != nil {
			return err
		}

		fromAcc.Balance = fromBalance
		fromAcc.UpdatedAt = ts
		from = fromAcc

		return nil
	})
	if err != nil {
		return nil, err
	}

	return from, nil
}
