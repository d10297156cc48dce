// Package remote combines sync backends.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// Fanout forwards every change to all of its remotes and joins their errors. Fetch is
// served by the first remote that can fetch.
type Fanout struct {
	remotes []ledger.Remote
}

func NewFanout(remotes ...ledger.Remote) *Fanout {
	return &Fanout{remotes: remotes}
}

func (f *Fanout) each(ctx context.Context, call func(ctx context.Context, r ledger.Remote) error) error {
	var errs []error

	for _, r := range f.remotes {
		if err := call(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (f *Fanout) InsertExpense(ctx context.Context, e ledger.Expense) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.InsertExpense(ctx, e) })
}

func (f *Fanout) UpdateExpenseAmount(ctx context.Context, e ledger.Expense) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.UpdateExpenseAmount(ctx, e) })
}

func (f *Fanout) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.DeleteExpense(ctx, id) })
}

func (f *Fanout) InsertCategory(ctx context.Context, c ledger.Category) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.InsertCategory(ctx, c) })
}

func (f *Fanout) UpdateCategory(ctx context.Context, c ledger.Category) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.UpdateCategory(ctx, c) })
}

func (f *Fanout) RenameCategory(ctx context.Context, rename ledger.CategoryRename) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.RenameCategory(ctx, rename) })
}

func (f *Fanout) DeleteCategory(ctx context.Context, deletion ledger.CategoryDeletion) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.DeleteCategory(ctx, deletion) })
}

func (f *Fanout) InsertSavingTarget(ctx context.Context, t ledger.SavingTarget) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.InsertSavingTarget(ctx, t) })
}

func (f *Fanout) DeleteSavingTarget(ctx context.Context, category string) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.DeleteSavingTarget(ctx, category) })
}

func (f *Fanout) Reset(ctx context.Context, snap *ledger.Snapshot) error {
	return f.each(ctx, func(ctx context.Context, r ledger.Remote) error { return r.Reset(ctx, snap) })
}

func (f *Fanout) Fetch(ctx context.Context) (*ledger.Snapshot, error) {
	for _, r := range f.remotes {
		if fetcher, ok := r.(ledger.Fetcher); ok {
			return fetcher.Fetch(ctx)
		}
	}

	return nil, fmt.Errorf("no remote supports fetching")
}
