package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

func resetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every entry and saving target and restore the default categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			confirmed := yes

			if !confirmed {
				var ack string

				err := huh.NewInput().
					Title(fmt.Sprintf("すべてのデータを削除します。確認のため「%s」と入力してください", ledger.ResetAcknowledgement)).
					Value(&ack).
					Run()
				if err != nil {
					return err
				}

				confirmed = ack == ledger.ResetAcknowledgement
			}

			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("キャンセルしました"))
				return nil
			}

			err := ledgerApp.Ledger.Reset(cmd.Context(), true)
			if err != nil && !errors.Is(err, ledger.ErrRemoteSync) {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ データをリセットしました"))

			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(err.Error()))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
