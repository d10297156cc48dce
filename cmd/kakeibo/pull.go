package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local ledger with the remote one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ledgerApp.Ledger.Pull(cmd.Context()); err != nil {
				return err
			}

			snap := ledgerApp.Ledger.Store().Snapshot()
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf(
				"✓ %d entries, %d categories, %d saving targets",
				len(snap.Expenses), len(snap.Categories), len(snap.SavingTargets))))

			return nil
		},
	}
}
