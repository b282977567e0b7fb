package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/postgres"
)

type options struct {
	baseURL     string
	timeout     time.Duration
	jsonOutput  bool
	databaseURL string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "bankledger-cli",
		Short:         "Bankledger CLI tool",
		Long:          `A command line interface for interacting with the bankledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the bankledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print raw JSON instead of tables")

	rootCmd.AddCommand(
		accountsCmd(opts),
		depositCmd(opts),
		withdrawCmd(opts),
		transferCmd(opts),
		entriesCmd(opts),
		ledgerCmd(opts),
		migrateCmd(opts),
	)

	return rootCmd
}

func (o *options) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout)
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var accounts []dto.AccountResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/accounts", pageQuery(limit, offset), nil, &accounts); err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), accounts)
			}
			printAccounts(cmd.OutOrStdout(), accounts)
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of accounts (0 = all)")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Number of accounts to skip")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/accounts/"+url.PathEscape(args[0]), nil, nil, &account); err != nil {
				return err
			}
			return printAccount(cmd, opts, account)
		},
	}

	var owner, balance string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"owner": owner}
			if balance != "" {
				body["balance"] = balance
			}

			var account dto.AccountResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/accounts", nil, body, &account); err != nil {
				return err
			}
			return printAccount(cmd, opts, account)
		},
	}
	createCmd.Flags().StringVar(&owner, "owner", "", "Account owner")
	createCmd.Flags().StringVar(&balance, "balance", "", "Opening balance")
	_ = createCmd.MarkFlagRequired("owner")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account with its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().do(cmd.Context(), http.MethodDelete, "/accounts/"+url.PathEscape(args[0]), nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, createCmd, deleteCmd)
	return cmd
}

func printAccount(cmd *cobra.Command, opts *options, account dto.AccountResponse) error {
	if opts.jsonOutput {
		return printJSON(cmd.OutOrStdout(), account)
	}
	printAccounts(cmd.OutOrStdout(), []dto.AccountResponse{account})
	return nil
}

func depositCmd(opts *options) *cobra.Command {
	return moveCmd(opts, "deposit", "Deposit money into an account")
}

func withdrawCmd(opts *options) *cobra.Command {
	return moveCmd(opts, "withdraw", "Withdraw money from an account")
}

func moveCmd(opts *options, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <account-id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			path := "/accounts/" + url.PathEscape(args[0]) + "/" + action
			if err := opts.client().do(cmd.Context(), http.MethodPost, path, url.Values{"amount": {args[1]}}, nil, &account); err != nil {
				return err
			}
			return printAccount(cmd, opts, account)
		},
	}
}

func transferCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from-id> <to-id> <amount>",
		Short: "Move money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{
				"fromAccountId": {args[0]},
				"toAccountId":   {args[1]},
				"amount":        {args[2]},
			}

			var account dto.AccountResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/transfer", query, nil, &account); err != nil {
				return err
			}
			return printAccount(cmd, opts, account)
		},
	}
}

func entriesCmd(opts *options) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "entries <account-id>",
		Short: "List the entries of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []dto.EntryResponse
			path := "/accounts/" + url.PathEscape(args[0]) + "/transactions"
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, pageQuery(limit, offset), nil, &entries); err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of entries to skip")

	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check every balance against its entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ReconciliationResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/ledger/reconciliation", nil, nil, &report, http.StatusConflict); err != nil {
				return err
			}

			if opts.jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				printReconciliation(cmd.OutOrStdout(), report)
			}

			if !report.Consistent {
				return fmt.Errorf("ledger is inconsistent: %d discrepancies", len(report.Discrepancies))
			}
			return nil
		},
	}

	cmd.AddCommand(reconcileCmd)
	return cmd
}

func migrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")

	migrator := func(cmd *cobra.Command) (*postgres.Migrator, error) {
		if opts.databaseURL == "" {
			return nil, fmt.Errorf("--database-url or DATABASE_URL is required")
		}
		lg := logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, cmd.ErrOrStderr())
		return postgres.NewMigrator(opts.databaseURL, lg), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return m.Down()
		},
	}

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}
