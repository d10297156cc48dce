package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

func importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			res, err := ledgerApp.Import.Import(cmd.Context(), importer.Format(format), f)
			if err != nil && !errors.Is(err, ledger.ErrRemoteSync) {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ %d件を取り込みました", len(res.Imported))))

			for _, s := range res.Skipped {
				fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("  line %d: %s", s.Line, s.Reason)))
			}

			if err != nil {
				fmt.Fprintln(out, warnStyle.Render(err.Error()))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(importer.FormatLedger), "file format")

	return cmd
}
