package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency returns the sum of balances and the sum expected from
// opening balances and entries.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(result.TotalBalance), numericToDecimal(result.ExpectedBalance), nil
}

// BalanceChecks reads every account's balance and entry sum in one statement,
// so all rows come from the same snapshot.
func (r *LedgerRepository) BalanceChecks(ctx context.Context) ([]usecase.BalanceCheck, error) {
	rows, err := r.queries.ListAccountBalanceChecks(ctx)
	if err != nil {
		return nil, err
	}

	checks := make([]usecase.BalanceCheck, len(rows))
	for i, row := range rows {
		checks[i] = usecase.BalanceCheck{
			AccountID:  row.ID,
			Recorded:   numericToDecimal(row.Balance),
			Calculated: numericToDecimal(row.CalculatedBalance),
		}
	}

	return checks, nil
}

// BalanceCheck is BalanceChecks for one account.
func (r *LedgerRepository) BalanceCheck(ctx context.Context, accountID string) (usecase.BalanceCheck, error) {
	row, err := r.queries.GetAccountBalanceCheck(ctx, accountID)
	if err != nil {
		return usecase.BalanceCheck{}, accountErr(err, accountID)
	}

	return usecase.BalanceCheck{
		AccountID:  row.ID,
		Recorded:   numericToDecimal(row.Balance),
		Calculated: numericToDecimal(row.CalculatedBalance),
	}, nil
}
