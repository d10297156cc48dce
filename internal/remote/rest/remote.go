package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

func (c *Client) InsertExpense(ctx context.Context, e ledger.Expense) error {
	return c.do(ctx, http.MethodPost, tableExpenses, nil, c.newExpenseRow(e), nil)
}

func (c *Client) UpdateExpenseAmount(ctx context.Context, e ledger.Expense) error {
	body := struct {
		Amount    decimal.Decimal `json:"amount"`
		UpdatedAt time.Time       `json:"updated_at"`
	}{e.Amount, c.now()}

	return c.do(ctx, http.MethodPatch, tableExpenses, c.userFilter("id", e.ID.String()), body, nil)
}

func (c *Client) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, tableExpenses, c.userFilter("id", id.String()), nil, nil)
}

func (c *Client) InsertCategory(ctx context.Context, cat ledger.Category) error {
	return c.do(ctx, http.MethodPost, tableCategories, nil, c.newCategoryRow(cat), nil)
}

func (c *Client) UpdateCategory(ctx context.Context, cat ledger.Category) error {
	body := struct {
		Name      string      `json:"name"`
		Color     string      `json:"color"`
		IsDefault bool        `json:"is_default"`
		Type      ledger.Type `json:"type"`
	}{cat.Name, cat.Color, cat.IsDefault, cat.Type}

	return c.do(ctx, http.MethodPatch, tableCategories, c.userFilter("id", cat.ID.String()), body, nil)
}

type categoryRef struct {
	Category string `json:"category"`
}

// RenameCategory updates the category row and then every row that references the old name.
func (c *Client) RenameCategory(ctx context.Context, rename ledger.CategoryRename) error {
	if err := c.UpdateCategory(ctx, rename.Category); err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}

	ref := categoryRef{Category: rename.Category.Name}

	if len(rename.ExpenseIDs) > 0 {
		err := c.do(ctx, http.MethodPatch, tableExpenses, c.userFilter("category", rename.OldName), ref, nil)
		if err != nil {
			return fmt.Errorf("renaming expense category: %w", err)
		}
	}

	if rename.TargetRenamed {
		err := c.do(ctx, http.MethodPatch, tableSavingTargets, c.userFilter("category", rename.OldName), ref, nil)
		if err != nil {
			return fmt.Errorf("renaming saving target: %w", err)
		}
	}

	return nil
}

// DeleteCategory removes dependent rows before the category itself.
func (c *Client) DeleteCategory(ctx context.Context, deletion ledger.CategoryDeletion) error {
	name := deletion.Category.Name

	if len(deletion.Expenses) > 0 {
		if err := c.do(ctx, http.MethodDelete, tableExpenses, c.userFilter("category", name), nil, nil); err != nil {
			return fmt.Errorf("deleting category expenses: %w", err)
		}
	}

	if deletion.Target != nil {
		if err := c.DeleteSavingTarget(ctx, name); err != nil {
			return err
		}
	}

	if err := c.do(ctx, http.MethodDelete, tableCategories, c.userFilter("id", deletion.Category.ID.String()), nil, nil); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	return nil
}

func (c *Client) InsertSavingTarget(ctx context.Context, t ledger.SavingTarget) error {
	row := savingTargetRow{
		UserID:    c.userID,
		Category:  t.Category,
		Amount:    t.Amount,
		CreatedAt: c.now(),
	}

	return c.do(ctx, http.MethodPost, tableSavingTargets, nil, row, nil)
}

func (c *Client) DeleteSavingTarget(ctx context.Context, category string) error {
	if err := c.do(ctx, http.MethodDelete, tableSavingTargets, c.userFilter("category", category), nil, nil); err != nil {
		return fmt.Errorf("deleting saving target: %w", err)
	}

	return nil
}

// Reset deletes every row of the user and uploads the given snapshot's categories.
func (c *Client) Reset(ctx context.Context, snap *ledger.Snapshot) error {
	for _, table := range []string{tableExpenses, tableSavingTargets, tableCategories} {
		if err := c.do(ctx, http.MethodDelete, table, c.userFilter(), nil, nil); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if len(snap.Categories) == 0 {
		return nil
	}

	rows := make([]categoryRow, len(snap.Categories))
	for i, cat := range snap.Categories {
		rows[i] = c.newCategoryRow(cat)
	}

	if err := c.do(ctx, http.MethodPost, tableCategories, nil, rows, nil); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}

	return nil
}

// Fetch loads the three tables concurrently.
func (c *Client) Fetch(ctx context.Context) (*ledger.Snapshot, error) {
	var (
		expenses   []expenseRow
		categories []categoryRow
		targets    []savingTargetRow
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q := c.userFilter()
		q.Set("select", "*")
		q.Set("order", "date.desc")

		return c.do(ctx, http.MethodGet, tableExpenses, q, nil, &expenses)
	})

	g.Go(func() error {
		q := c.userFilter()
		q.Set("select", "*")
		q.Set("order", "name")

		return c.do(ctx, http.MethodGet, tableCategories, q, nil, &categories)
	})

	g.Go(func() error {
		q := c.userFilter()
		q.Set("select", "*")

		return c.do(ctx, http.MethodGet, tableSavingTargets, q, nil, &targets)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}

	snap := &ledger.Snapshot{
		Expenses:      make([]ledger.Expense, 0, len(expenses)),
		Categories:    make([]ledger.Category, 0, len(categories)),
		SavingTargets: make([]ledger.SavingTarget, 0, len(targets)),
	}

	for _, r := range expenses {
		snap.Expenses = append(snap.Expenses, r.toExpense())
	}

	for _, r := range categories {
		snap.Categories = append(snap.Categories, r.toCategory())
	}

	for _, r := range targets {
		snap.SavingTargets = append(snap.SavingTargets, ledger.SavingTarget{Category: r.Category, Amount: r.Amount})
	}

	return snap, nil
}
