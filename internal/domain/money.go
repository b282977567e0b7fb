package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits carried by every amount and balance.
const MoneyScale = 2

// MaxAmount bounds a single deposit, withdrawal or transfer.
var MaxAmount = decimal.New(1, 15)

// MaxBalance bounds any account balance; the balance columns are NUMERIC(20,2).
var MaxBalance = decimal.New(1, 17)

// Decimal exponents outside [minExponent, maxExponent] are refused before any
// arithmetic: rescaling 1e99999999 allocates a hundred-million digit integer.
const (
	minExponent     = -18
	maxExponent     = 18
	maxAmountLength = 64
)

// ParseAmount parses a decimal string as sent by clients.
// It does not check the sign; see ValidateAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}

	if len(s) > maxAmountLength {
		return decimal.Zero, fmt.Errorf("%w: amount is longer than %d characters", ErrInvalidAmount, maxAmountLength)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrMalformedRequest, s)
	}

	if !inExponentRange(d) {
		return decimal.Zero, fmt.Errorf("%w: amount %q is out of range", ErrInvalidAmount, s)
	}

	return d, nil
}

// ValidateAmount checks a movement amount: strictly positive, at most
// MoneyScale fractional digits and not above MaxAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if !inExponentRange(amount) {
		return fmt.Errorf("%w: amount is out of range", ErrInvalidAmount)
	}

	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}

	if !hasMoneyScale(amount) {
		return fmt.Errorf("%w: amount has more than %d decimal places", ErrInvalidAmount, MoneyScale)
	}

	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxAmount.String())
	}

	return nil
}

// ValidateBalance checks a balance given on account create or update.
// Zero and negative balances are allowed.
func ValidateBalance(balance decimal.Decimal) error {
	if !inExponentRange(balance) {
		return fmt.Errorf("%w: balance is out of range", ErrInvalidBalance)
	}

	if !hasMoneyScale(balance) {
		return fmt.Errorf("%w: balance has more than %d decimal places", ErrInvalidBalance, MoneyScale)
	}

	if balance.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: balance exceeds %s", ErrInvalidBalance, MaxAmount.String())
	}

	return nil
}

// FormatAmount renders an amount with exactly MoneyScale fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}

func hasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

func inExponentRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= minExponent && exp <= maxExponent
}
