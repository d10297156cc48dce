package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// Record keys. Each entity record holds a JSON array.
const (
	KeyExpenses      = "expenses"
	KeyCategories    = "categories"
	KeySavingTargets = "savingTargets"
	KeyActiveTab     = "activeTab"
)

// Store persists the ledger as string-keyed records.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const upsertRecord = `
	INSERT INTO records (record_key, value, updated_at)
	VALUES ($1, $2, CURRENT_TIMESTAMP)
	ON CONFLICT (record_key) DO UPDATE
	SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`

// Load returns ledger.ErrNotFound when none of the entity records exist yet.
func (s *Store) Load(ctx context.Context) (*ledger.Snapshot, error) {
	query := `
		SELECT record_key, value
		FROM records
		WHERE record_key IN ($1, $2, $3)
	`

	rows, err := s.db.QueryContext(ctx, query, KeyExpenses, KeyCategories, KeySavingTargets)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	snap := ledger.Snapshot{
		Expenses:      []ledger.Expense{},
		Categories:    []ledger.Category{},
		SavingTargets: []ledger.SavingTarget{},
	}

	found := 0

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		var dest any

		switch key {
		case KeyExpenses:
			dest = &snap.Expenses
		case KeyCategories:
			dest = &snap.Categories
		case KeySavingTargets:
			dest = &snap.SavingTargets
		}

		if err := json.Unmarshal([]byte(value), dest); err != nil {
			return nil, fmt.Errorf("decoding %s record: %w", key, err)
		}

		found++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	if found == 0 {
		return nil, ledger.ErrNotFound
	}

	return &snap, nil
}

// Save writes the three entity records in one transaction.
func (s *Store) Save(ctx context.Context, snap *ledger.Snapshot) error {
	records := []struct {
		key   string
		value any
	}{
		{KeyExpenses, nonNil(snap.Expenses)},
		{KeyCategories, nonNil(snap.Categories)},
		{KeySavingTargets, nonNil(snap.SavingTargets)},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		data, err := json.Marshal(r.value)
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", r.key, err)
		}

		if _, err := tx.ExecContext(ctx, upsertRecord, r.key, string(data)); err != nil {
			return fmt.Errorf("saving %s record: %w", r.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

// GetValue returns ledger.ErrNotFound for unknown keys.
func (s *Store) GetValue(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE record_key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("record %q: %w", key, ledger.ErrNotFound)
	}

	if err != nil {
		return "", fmt.Errorf("getting record %q: %w", key, err)
	}

	return value, nil
}

func (s *Store) SetValue(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertRecord, key, value); err != nil {
		return fmt.Errorf("setting record %q: %w", key, err)
	}

	return nil
}

// ActiveTab returns the last tab the client showed, or "" if none was stored.
func (s *Store) ActiveTab(ctx context.Context) (string, error) {
	v, err := s.GetValue(ctx, KeyActiveTab)
	if errors.Is(err, ledger.ErrNotFound) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	var tab string
	if err := json.Unmarshal([]byte(v), &tab); err != nil {
		return "", fmt.Errorf("decoding active tab: %w", err)
	}

	return tab, nil
}

func (s *Store) SetActiveTab(ctx context.Context, tab string) error {
	data, err := json.Marshal(tab)
	if err != nil {
		return fmt.Errorf("encoding active tab: %w", err)
	}

	return s.SetValue(ctx, KeyActiveTab, string(data))
}
