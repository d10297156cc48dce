package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
	"github.com/MrJamesThe3rd/kakeibo/internal/money"
	"github.com/MrJamesThe3rd/kakeibo/internal/summary"
)

func summaryCmd() *cobra.Command {
	var filter ledger.Filter

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print totals by category and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := ledgerApp.Ledger.Store()
			expenses := ledger.FilterExpenses(store.Expenses(), filter)

			totals := summary.ComputeTotals(expenses)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("収入"), money.Format(totals.Income))
			fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("支出"), money.Format(totals.Expense))
			fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("収支"), money.Format(totals.Balance))
			fmt.Fprintf(w, "%s\t%d\n\n", headerStyle.Render("件数"), totals.Count)

			fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render("カテゴリ"), headerStyle.Render("金額"), headerStyle.Render("件数"))

			for _, c := range summary.ByCategory(expenses, store.Categories()) {
				fmt.Fprintf(w, "%s\t%s\t%d\n", c.Category, money.Format(c.Amount), c.Count)
			}

			fmt.Fprintf(w, "\n%s\t%s\n", headerStyle.Render("月"), headerStyle.Render("金額"))

			for _, m := range summary.ByMonth(expenses) {
				fmt.Fprintf(w, "%s\t%s\n", m.Label, money.Format(m.Amount))
			}

			return w.Flush()
		},
	}

	addFilterFlags(cmd, &filter)

	return cmd
}
