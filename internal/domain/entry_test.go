package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntry_SignedAmount(t *testing.T) {
	tests := []struct {
		entryType EntryType
		want      string
	}{
		{EntryTypeDeposit, "25.50"},
		{EntryTypeTransferIn, "25.50"},
		{EntryTypeWithdraw, "-25.50"},
		{EntryTypeTransferOut, "-25.50"},
	}

	for _, tt := range tests {
		t.Run(string(tt.entryType), func(t *testing.T) {
			e := &Entry{Type: tt.entryType, Amount: decimal.RequireFromString("25.50")}
			if got := e.SignedAmount(); !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("SignedAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEntryType_IsValid(t *testing.T) {
	for _, et := range []EntryType{EntryTypeDeposit, EntryTypeWithdraw, EntryTypeTransferIn, EntryTypeTransferOut} {
		if !et.IsValid() {
			t.Errorf("%s should be valid", et)
		}
	}
	if EntryType("REFUND").IsValid() {
		t.Error("REFUND should not be valid")
	}
}

func TestSumSigned(t *testing.T) {
	entries := []*Entry{
		{Type: EntryTypeDeposit, Amount: decimal.NewFromInt(100)},
		{Type: EntryTypeWithdraw, Amount: decimal.NewFromInt(30)},
		{Type: EntryTypeTransferOut, Amount: decimal.RequireFromString("20.25")},
		{Type: EntryTypeTransferIn, Amount: decimal.RequireFromString("0.25")},
	}

	if got := SumSigned(entries); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("SumSigned = %s, want 50", got)
	}

	if got := SumSigned(nil); !got.IsZero() {
		t.Errorf("SumSigned(nil) = %s, want 0", got)
	}
}
