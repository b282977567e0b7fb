package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "integer", input: "200", want: "200"},
		{name: "two decimals", input: "10.25", want: "10.25"},
		{name: "surrounding space", input: " 7.5 ", want: "7.5"},
		{name: "negative parses", input: "-5", want: "-5"},
		{name: "empty", input: "", wantErr: ErrInvalidAmount},
		{name: "not a number", input: "abc", wantErr: ErrMalformedRequest},
		{name: "scientific notation", input: "1.5e2", want: "150"},
		{name: "huge exponent", input: "1e99999999", wantErr: ErrInvalidAmount},
		{name: "huge negative exponent", input: "1e-99999999", wantErr: ErrInvalidAmount},
		{name: "too long", input: "1" + strings.Repeat("0", 80), wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	valid := []string{"0.01", "1", "100.25", "1.500", "1000000000000000"}
	for _, s := range valid {
		if err := ValidateAmount(decimal.RequireFromString(s)); err != nil {
			t.Fatalf("expected %s to be valid, got %v", s, err)
		}
	}

	invalid := []string{"0", "-0.01", "-100", "0.001", "10.999", "1000000000000000.01"}
	for _, s := range invalid {
		if err := ValidateAmount(decimal.RequireFromString(s)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %s, got %v", s, err)
		}
	}
}

func TestValidateRejectsExtremeExponents(t *testing.T) {
	t.Parallel()

	for _, d := range []decimal.Decimal{decimal.New(1, 99999999), decimal.New(1, -99999999), decimal.New(5, 19)} {
		if err := ValidateAmount(d); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for exponent %d, got %v", d.Exponent(), err)
		}
		if err := ValidateBalance(d); !errors.Is(err, ErrInvalidBalance) {
			t.Fatalf("expected ErrInvalidBalance for exponent %d, got %v", d.Exponent(), err)
		}
	}
}

func TestValidateBalance(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"0", "-50.25", "1000"} {
		if err := ValidateBalance(decimal.RequireFromString(s)); err != nil {
			t.Fatalf("expected %s to be a valid balance, got %v", s, err)
		}
	}

	if err := ValidateBalance(decimal.RequireFromString("1.005")); !errors.Is(err, ErrInvalidBalance) {
		t.Fatalf("expected ErrInvalidBalance, got %v", err)
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1000":   "1000.00",
		"0":      "0.00",
		"12.5":   "12.50",
		"-3.10":  "-3.10",
		"800.00": "800.00",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatAmount(%s) = %s, want %s", in, got, want)
		}
	}
}
