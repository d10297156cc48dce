package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/kakeibo/internal/app"
	"github.com/MrJamesThe3rd/kakeibo/internal/config"
	"github.com/MrJamesThe3rd/kakeibo/internal/logging"
)

// skipLedger marks commands that only need the configuration.
const skipLedger = "skip-ledger"

var (
	cfg       *config.Config
	ledgerApp *app.App

	rootCmd = &cobra.Command{
		Use:                "kakeibo",
		Short:              "Household ledger administration",
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
)

func init() {
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(pullCmd())
	rootCmd.AddCommand(tokenCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	var err error

	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logging.Setup(os.Stderr, level, cfg.Log.Format, "cli")

	if cmd.Annotations[skipLedger] != "" {
		return nil
	}

	ledgerApp, err = app.Open(cmd.Context(), cfg)

	return err
}

func teardown(_ *cobra.Command, _ []string) error {
	if ledgerApp == nil {
		return nil
	}

	return ledgerApp.Close()
}
