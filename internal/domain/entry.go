package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a balance change.
type EntryType string

const (
	EntryTypeDeposit     EntryType = "DEPOSIT"
	EntryTypeWithdraw    EntryType = "WITHDRAW"
	EntryTypeTransferIn  EntryType = "TRANSFER_IN"
	EntryTypeTransferOut EntryType = "TRANSFER_OUT"
)

// IsValid reports whether t is one of the known entry types.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeDeposit, EntryTypeWithdraw, EntryTypeTransferIn, EntryTypeTransferOut:
		return true
	default:
		return false
	}
}

// IsCredit reports whether entries of this type increase the balance.
func (t EntryType) IsCredit() bool {
	return t == EntryTypeDeposit || t == EntryTypeTransferIn
}

// Entry is an immutable record of one balance change.
// TransferID is empty unless the entry belongs to a transfer.
type Entry struct {
	CreatedAt    time.Time
	ID           string
	AccountID    string
	TransferID   string
	Type         EntryType
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
}

// SignedAmount returns +Amount for credits and -Amount for debits.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Type.IsCredit() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// SumSigned adds up the signed amounts of entries.
func SumSigned(entries []*Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.SignedAmount())
	}
	return sum
}
