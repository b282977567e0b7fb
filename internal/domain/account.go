package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a customer account holding a single balance.
//
// OpeningBalance is the balance the account started from (creation or the
// last administrative update). Balance always equals OpeningBalance plus the
// signed sum of the account's entries.
type Account struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	Owner          string
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
}

// ValidateDebit checks if account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateCredit checks that crediting amount keeps the balance within MaxBalance.
func (a *Account) ValidateCredit(amount decimal.Decimal) error {
	if a.Balance.Add(amount).GreaterThan(MaxBalance) {
		return fmt.Errorf("%w: balance would exceed %s", ErrInvalidAmount, FormatAmount(MaxBalance))
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Rebase overrides the balance and moves the opening balance so that
// opening + entriesSum still equals the balance.
func (a *Account) Rebase(balance, entriesSum decimal.Decimal) {
	a.Balance = balance
	a.OpeningBalance = balance.Sub(entriesSum)
}
