package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

func exportCmd() *cobra.Command {
	var (
		dir    string
		filter ledger.Filter
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := ledgerApp.Export.WriteFile(filter, dir)
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ CSVファイルを出力しました: "+path))

			return nil
		},
	}

	addFilterFlags(cmd, &filter)
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "directory to write the file into")

	return cmd
}

func addFilterFlags(cmd *cobra.Command, f *ledger.Filter) {
	cmd.Flags().StringVar(&f.DateFrom, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.DateTo, "to", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Category, "category", "", "only entries of this category")
	cmd.Flags().StringVar(&f.SearchText, "search", "", "only entries whose memo contains this text")
	cmd.Flags().StringVar(&f.Year, "year", "", "only entries of this year")
	cmd.Flags().StringVar(&f.Month, "month", "", "only entries of this month (1-12)")
}
