package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// EntryService defines the history lookups used by EntryHandler.
type EntryService interface {
	GetEntriesByAccount(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Entry, error)
	GetTransfersByAccount(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Transfer, error)
}

// EntryHandler handles entry and transfer history requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount lists the entries of an account, oldest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryUC.GetEntriesByAccount(r.Context(), historyInput(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListTransfersByAccount lists transfers sent or received by an account.
func (h *EntryHandler) ListTransfersByAccount(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.entryUC.GetTransfersByAccount(r.Context(), historyInput(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
}

func historyInput(r *http.Request) usecase.GetEntriesByAccountInput {
	return usecase.GetEntriesByAccountInput{
		AccountID: chi.URLParam(r, "id"),
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	}
}
