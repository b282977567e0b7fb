package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Owner   string           `json:"owner"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

// ToUseCaseInput converts to use case input. A missing balance opens the
// account at zero.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	balance := decimal.Zero
	if r.Balance != nil {
		balance = *r.Balance
	}

	return usecase.CreateAccountInput{
		Owner:   r.Owner,
		Balance: balance,
	}
}

// UpdateAccountRequest represents a request to overwrite an account.
type UpdateAccountRequest struct {
	Owner   string           `json:"owner"`
	Balance *decimal.Decimal `json:"balance"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		Owner:   r.Owner,
		Balance: r.Balance,
	}
}
