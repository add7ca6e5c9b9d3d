package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/cycle"
	"github.com/HoussamEddineSmati/SpendKiler/internal/export"
	"github.com/HoussamEddineSmati/SpendKiler/internal/repository/sqlite"
	"github.com/HoussamEddineSmati/SpendKiler/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const defaultDBPath = "data/spendkiler.db"

var decimalHundred = decimal.NewFromInt(100)

type rootFlags struct {
	dbPath  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "spendctl",
		Short: "Inspect and move SpendKiler data offline",
		Long: `spendctl reads a SpendKiler SQLite database directly.
It prints the current budget cycle and exports or imports expenses as CSV.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.dbPath, "db", defaultDBPath, "path to the SQLite database")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSummaryCmd(flags), newExportCmd(flags), newImportCmd(flags))
	return root
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

func newSummaryCmd(flags *rootFlags) *cobra.Command {
	var (
		now    string
		sort   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the current budget cycle",
		Long:  `Print the current cycle window, spending against the salary budget, and the cycle's expenses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := cycle.ParseSortOrder(sort)
			if err != nil {
				return err
			}

			at := time.Now()
			if now != "" {
				if at, err = time.Parse(time.RFC3339, now); err != nil {
					return fmt.Errorf("--now must be RFC 3339: %w", err)
				}
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, flags.dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewCycleService(sqlite.NewExpenseRepository(db), sqlite.NewSettingsRepository(db))
			svc.SetClock(func() time.Time { return at })
			svc.SetRecentLimit(0)

			overview, err := svc.GetSummary(ctx, order)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(overview)
			}
			return printSummary(cmd.OutOrStdout(), overview)
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "evaluate the cycle at this RFC 3339 instant instead of now")
	cmd.Flags().StringVar(&sort, "sort", string(cycle.SortByDate), "expense order: date or amount")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printSummary(w io.Writer, overview *service.CycleOverview) error {
	fmt.Fprintf(w, "Cycle:   %s - %s\n", overview.Start.Format("2006-01-02"), overview.End.Format("2006-01-02"))
	fmt.Fprintf(w, "Spent:   %s\n", overview.TotalSpent.StringFixed(2))
	fmt.Fprintf(w, "Budget:  %s\n", overview.Budget.StringFixed(2))
	fmt.Fprintf(w, "Balance: %s\n", overview.Balance.StringFixed(2))
	fmt.Fprintf(w, "Used:    %s%%", overview.Status.ProgressRatio.Mul(decimalHundred).StringFixed(0))
	if overview.Status.Overspent {
		fmt.Fprint(w, " (over budget)")
	}
	fmt.Fprintln(w)

	if len(overview.Expenses) == 0 {
		fmt.Fprintln(w, "\nNo expenses this cycle.")
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tNOTE")
	for _, e := range overview.Expenses {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, e.Amount.StringFixed(2), note)
	}
	return tw.Flush()
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every expense to CSV",
		Long:  `Write all expenses, newest first, as CSV to --out or standard output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(ctx, flags.dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			expenses, err := service.NewExpenseService(sqlite.NewExpenseRepository(db)).ListExpenses(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := export.WriteCSV(w, expenses); err != nil {
				return err
			}
			log.Info().Int("count", len(expenses)).Str("out", out).Msg("Exported expenses")
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import expenses from CSV",
		Long:  `Read expenses in the export format and add them. Nothing is written if any row is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("open %s: %w", in, err)
			}
			defer f.Close()

			rows, err := export.ReadCSV(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, flags.dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			inputs := make([]service.CreateExpenseInput, 0, len(rows))
			for _, row := range rows {
				inputs = append(inputs, service.CreateExpenseInput{
					Category: string(row.Category),
					Amount:   row.Amount,
					Date:     row.Date,
					Note:     row.Note,
				})
			}

			count, err := service.NewExpenseService(sqlite.NewExpenseRepository(db)).ImportExpenses(ctx, inputs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses\n", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "CSV file to import")
	return cmd
}
