package postgres

import (
	"math"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericConversion(t *testing.T) {
	for _, s := range []string{"0", "1000.00", "-25.50", "0.01", "999999999999999.99"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Fatalf("conversion of %s returned %s", s, got)
		}
	}

	if got := numericToDecimal(pgtype.Numeric{}); !got.IsZero() {
		t.Fatalf("invalid numeric should convert to zero, got %s", got)
	}
}

func TestStringToPgText(t *testing.T) {
	if v := stringToPgText(""); v.Valid {
		t.Fatal("empty string must map to NULL")
	}
	if v := stringToPgText("tr-1"); !v.Valid || v.String != "tr-1" {
		t.Fatalf("unexpected text %+v", v)
	}
}

func TestPaginationSaturates(t *testing.T) {
	tests := []struct {
		limit, offset int
		wantL, wantO  int32
	}{
		{0, 0, 0, 0},
		{50, 100, 50, 100},
		{-1, -1, 0, 0},
		{10, 4294967295, 10, math.MaxInt32},
	}

	for _, tt := range tests {
		l, o := pagination(tt.limit, tt.offset)
		if l != tt.wantL || o != tt.wantO {
			t.Fatalf("pagination(%d, %d) = (%d, %d), want (%d, %d)", tt.limit, tt.offset, l, o, tt.wantL, tt.wantO)
		}
	}
}
