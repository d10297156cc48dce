package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/kakeibo/internal/app"
	"github.com/MrJamesThe3rd/kakeibo/internal/config"
	kakeiboHttp "github.com/MrJamesThe3rd/kakeibo/internal/http"
	adminHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/admin"
	categoryHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/category"
	expenseHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/importcsv"
	summaryHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/summary"
	targetHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/target"
	"github.com/MrJamesThe3rd/kakeibo/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logging.Setup(os.Stderr, level, cfg.Log.Format, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	svc := a.Ledger

	router := kakeiboHttp.New(kakeiboHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
	}, kakeiboHttp.Handlers{
		Expenses:   expenseHandler.NewHandler(svc),
		Categories: categoryHandler.NewHandler(svc),
		Targets:    targetHandler.NewHandler(svc, time.Now),
		Summary:    summaryHandler.NewHandler(svc.Store(), time.Now),
		Export:     exportHandler.NewHandler(a.Export),
		Import:     importHandler.NewHandler(a.Import),
		Admin:      adminHandler.NewHandler(svc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "remote", cfg.Remote.Backend, "auth", cfg.Auth.JWTSecret != "")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
