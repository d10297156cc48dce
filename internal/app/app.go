// Package app wires the ledger, its persistence and its remotes from configuration.
// The API server, the terminal client and the admin CLI share it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/kakeibo/internal/config"
	"github.com/MrJamesThe3rd/kakeibo/internal/database"
	"github.com/MrJamesThe3rd/kakeibo/internal/export"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer/ledgercsv"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger/store"
	"github.com/MrJamesThe3rd/kakeibo/internal/remote"
	"github.com/MrJamesThe3rd/kakeibo/internal/remote/amqp"
	"github.com/MrJamesThe3rd/kakeibo/internal/remote/rest"
)

type App struct {
	Config  *config.Config
	DB      *sql.DB
	Records *store.Store
	Ledger  *ledger.Service
	Export  *export.Service
	Import  *importer.Service

	closers []io.Closer
}

// Open migrates and connects to the database, builds the configured remotes and
// loads the ledger.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	driver := database.Driver(cfg.DB.Driver)

	if driver == database.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	if err := database.Migrate(driver, cfg.DSN()); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	a := &App{Config: cfg, DB: db, Records: store.New(db)}
	a.closers = append(a.closers, db)

	r, closers := NewRemote(cfg)
	a.closers = append(a.closers, closers...)

	a.Ledger = ledger.NewService(ledger.NewDefaultStore(), a.Records, r)
	if err := a.Ledger.Init(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("initializing ledger: %w", err)
	}

	a.Export = export.NewService(a.Ledger.Store())
	a.Import = importer.NewService(a.Ledger, a.Ledger.Store(), map[importer.Format]importer.Parser{
		importer.FormatLedger: ledgercsv.NewParser(),
	})

	return a, nil
}

// NewRemote builds the remote for the configured backend, or nil when there is none.
// An AMQP broker that cannot be reached is logged and skipped so the ledger stays
// usable offline.
func NewRemote(cfg *config.Config) (ledger.Remote, []io.Closer) {
	var (
		remotes []ledger.Remote
		closers []io.Closer
	)

	if cfg.UsesREST() {
		remotes = append(remotes, rest.NewClient(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.UserID, cfg.Remote.Timeout))
	}

	if cfg.UsesAMQP() {
		p, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, cfg.Remote.UserID)
		if err != nil {
			slog.Warn("amqp publisher unavailable, continuing without it", "error", err)
		} else {
			remotes = append(remotes, p)
			closers = append(closers, p)
		}
	}

	switch len(remotes) {
	case 0:
		return nil, closers
	case 1:
		return remotes[0], closers
	default:
		return remote.NewFanout(remotes...), closers
	}
}

// Close releases the remotes and the database, in reverse order of creation.
func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}
