package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/iho/bankledger/internal/adapter/http/dto"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func printAccounts(w io.Writer, accounts []dto.AccountResponse) {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{a.ID, a.Owner, a.Balance, formatTime(a.CreatedAt)})
	}
	renderTable(w, []string{"ID", "Owner", "Balance", "Created At"}, rows)
}

func printEntries(w io.Writer, entries []dto.EntryResponse) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, string(e.EntryType), e.Amount, e.BalanceAfter, formatTime(e.CreatedAt)})
	}
	renderTable(w, []string{"ID", "Type", "Amount", "Balance After", "Created At"}, rows)
}

func printReconciliation(w io.Writer, report dto.ReconciliationResponse) {
	status := "CONSISTENT"
	if !report.Consistent {
		status = "INCONSISTENT"
	}
	fmt.Fprintf(w, "Ledger %s: %d/%d accounts reconciled (checked %s)\n",
		status, report.ReconciledAccounts, report.TotalAccounts, formatTime(report.CheckedAt))

	if len(report.Discrepancies) == 0 {
		return
	}

	rows := make([][]string, 0, len(report.Discrepancies))
	for _, d := range report.Discrepancies {
		rows = append(rows, []string{d.AccountID, d.RecordedBalance, d.CalculatedBalance, d.Difference})
	}
	renderTable(w, []string{"Account", "Recorded", "Calculated", "Difference"}, rows)
}
