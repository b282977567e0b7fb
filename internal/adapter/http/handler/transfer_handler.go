package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// LedgerService defines the balance-changing operations used by TransferHandler.
type LedgerService interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Account, error)
}

// TransferHandler handles deposits, withdrawals and transfers.
type TransferHandler struct {
	ledgerUC LedgerService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ledgerUC LedgerService) *TransferHandler {
	return &TransferHandler{ledgerUC: ledgerUC}
}

// Deposit credits ?amount= to the account.
func (h *TransferHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.ledgerUC.Deposit)
}

// Withdraw debits ?amount= from the account.
func (h *TransferHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.ledgerUC.Withdraw)
}

func (h *TransferHandler) move(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error),
) {
	amount, err := domain.ParseAmount(r.URL.Query().Get("amount"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	account, err := op(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Transfer moves ?amount= from ?fromAccountId= to ?toAccountId= and returns
// the source account.
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	amount, err := domain.ParseAmount(query.Get("amount"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	account, err := h.ledgerUC.Transfer(r.Context(), usecase.TransferInput{
		FromAccountID: query.Get("fromAccountId"),
		ToAccountID:   query.Get("toAccountId"),
		Amount:        amount,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}
