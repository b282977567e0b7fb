package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInconsistentLedger is returned when balances do not match the entry log.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match entries")

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{ledgerRepo: ledgerRepo}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount recomputes the balance of an account from its opening
// balance and entries and compares it with the stored balance.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	check, err := uc.ledgerRepo.BalanceCheck(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return newResult(check, time.Now().UTC()), nil
}

func newResult(check BalanceCheck, checkedAt time.Time) *ReconciliationResult {
	diff := check.Recorded.Sub(check.Calculated)

	return &ReconciliationResult{
		AccountID:         check.AccountID,
		RecordedBalance:   check.Recorded,
		CalculatedBalance: check.Calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       checkedAt,
	}
}

// ReconcileAllAccounts reconciles all accounts against one snapshot, so
// movements committed while it runs cannot show up as discrepancies.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	checks, err := uc.ledgerRepo.BalanceChecks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile accounts: %w", err)
	}

	checkedAt := time.Now().UTC()
	results := make([]*ReconciliationResult, len(checks))
	for i, check := range checks {
		results[i] = newResult(check, checkedAt)
	}

	return results, nil
}

// CheckLedgerConsistency compares the sum of all balances with the sum of
// all opening balances plus all signed entries.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	totalBalance, expected, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return err
	}

	if !totalBalance.Equal(expected) {
		return fmt.Errorf(
			"%w: balances=%s expected=%s difference=%s",
			ErrInconsistentLedger,
			totalBalance.String(),
			expected.String(),
			totalBalance.Sub(expected).String(),
		)
	}

	return nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// Consistent reports whether every account reconciled and the ledger totals match.
func (r *ReconciliationReport) Consistent() bool {
	return r.LedgerConsistent && len(r.Discrepancies) == 0
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil && !errors.Is(ledgerErr, ErrInconsistentLedger) {
		return nil, ledgerErr
	}

	report := &ReconciliationReport{
		TotalAccounts:    len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
