package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// Load returns ErrNotFound when nothing has been saved yet.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Remote mirrors local mutations to a backend. Calls are best effort.
type Remote interface {
	InsertExpense(ctx context.Context, e Expense) error
	UpdateExpenseAmount(ctx context.Context, e Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	InsertCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error
	RenameCategory(ctx context.Context, rename CategoryRename) error
	DeleteCategory(ctx context.Context, deletion CategoryDeletion) error

	InsertSavingTarget(ctx context.Context, t SavingTarget) error
	DeleteSavingTarget(ctx context.Context, category string) error

	Reset(ctx context.Context, snap *Snapshot) error
}

// Fetcher is implemented by remotes that can return their full state.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Service applies mutations to the Store, persists the result and then propagates the
// change to the remote. Local state is authoritative: a failed remote call is returned
// as an error wrapping ErrRemoteSync alongside the successful result and is never
// rolled back.
type Service struct {
	mu     sync.Mutex
	store  *Store
	repo   Repository
	remote Remote
}

// NewService wires the store to its persistence. remote may be nil.
func NewService(store *Store, repo Repository, remote Remote) *Service {
	return &Service{store: store, repo: repo, remote: remote}
}

// Store exposes the in-memory state for derived views.
func (s *Service) Store() *Store {
	return s.store
}

// Init loads the persisted snapshot, seeding and saving the defaults on first run.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err == nil {
		s.store.Restore(*snap)
		return nil
	}

	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	s.store.ResetToDefaults()

	fresh := s.store.Snapshot()
	if err := s.repo.Save(ctx, &fresh); err != nil {
		return fmt.Errorf("saving default snapshot: %w", err)
	}

	slog.InfoContext(ctx, "seeded default categories", "count", len(fresh.Categories))

	return nil
}

// Pull replaces the local state with the remote one. A remote snapshot that breaks the
// ledger invariants is rejected and local state is left untouched.
func (s *Service) Pull(ctx context.Context) error {
	fetcher, ok := s.remote.(Fetcher)
	if !ok {
		return fmt.Errorf("%w: remote does not support fetching", ErrRemoteSync)
	}

	snap, err := fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("%w: fetching snapshot: %w", ErrRemoteSync, err)
	}

	if len(snap.Categories) == 0 {
		snap.Categories = DefaultCategories(s.store.newID)
	}

	if err := snap.Validate(); err != nil {
		return fmt.Errorf("%w: rejecting remote snapshot: %w", ErrRemoteSync, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.store.Snapshot()

	s.store.Restore(*snap)

	if err := s.persist(ctx, prev); err != nil {
		return err
	}

	slog.InfoContext(ctx, "pulled remote snapshot",
		"expenses", len(snap.Expenses),
		"categories", len(snap.Categories),
		"saving_targets", len(snap.SavingTargets))

	return nil
}

// persist saves the current state, restoring prev when saving fails.
func (s *Service) persist(ctx context.Context, prev Snapshot) error {
	snap := s.store.Snapshot()
	if err := s.repo.Save(ctx, &snap); err != nil {
		s.store.Restore(prev)
		return fmt.Errorf("persisting snapshot: %w", err)
	}

	return nil
}

// apply runs a local mutation and persists it as one step.
func (s *Service) apply(ctx context.Context, mutate func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.store.Snapshot()
	if err := mutate(); err != nil {
		return err
	}

	return s.persist(ctx, prev)
}

func (s *Service) sync(ctx context.Context, op string, call func(ctx context.Context, r Remote) error) error {
	if s.remote == nil {
		return nil
	}

	if err := call(ctx, s.remote); err != nil {
		slog.WarnContext(ctx, "remote sync failed", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrRemoteSync, op, err)
	}

	return nil
}

func (s *Service) AddExpense(ctx context.Context, params ExpenseParams) (Expense, error) {
	var e Expense

	err := s.apply(ctx, func() (err error) {
		e, err = s.store.AddExpense(params)
		return err
	})
	if err != nil {
		return Expense{}, err
	}

	return e, s.sync(ctx, "insert expense", func(ctx context.Context, r Remote) error {
		return r.InsertExpense(ctx, e)
	})
}

func (s *Service) DeleteExpense(ctx context.Context, id uuid.UUID) (Expense, error) {
	var e Expense

	err := s.apply(ctx, func() (err error) {
		e, err = s.store.DeleteExpense(id)
		return err
	})
	if err != nil {
		return Expense{}, err
	}

	return e, s.sync(ctx, "delete expense", func(ctx context.Context, r Remote) error {
		return r.DeleteExpense(ctx, id)
	})
}

func (s *Service) UpdateExpenseAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (Expense, error) {
	var e Expense

	err := s.apply(ctx, func() (err error) {
		e, err = s.store.UpdateExpenseAmount(id, amount)
		return err
	})
	if err != nil {
		return Expense{}, err
	}

	return e, s.sync(ctx, "update expense", func(ctx context.Context, r Remote) error {
		return r.UpdateExpenseAmount(ctx, e)
	})
}

func (s *Service) AddCategory(ctx context.Context, params CategoryParams) (Category, error) {
	var c Category

	err := s.apply(ctx, func() (err error) {
		c, err = s.store.AddCategory(params)
		return err
	})
	if err != nil {
		return Category{}, err
	}

	return c, s.sync(ctx, "insert category", func(ctx context.Context, r Remote) error {
		return r.InsertCategory(ctx, c)
	})
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID, cascade bool) (CategoryDeletion, error) {
	var res CategoryDeletion

	err := s.apply(ctx, func() (err error) {
		res, err = s.store.DeleteCategory(id, cascade)
		return err
	})
	if err != nil {
		return CategoryDeletion{}, err
	}

	return res, s.sync(ctx, "delete category", func(ctx context.Context, r Remote) error {
		return r.DeleteCategory(ctx, res)
	})
}

func (s *Service) RenameCategory(ctx context.Context, id uuid.UUID, newName string) (CategoryRename, error) {
	var res CategoryRename

	err := s.apply(ctx, func() (err error) {
		res, err = s.store.RenameCategory(id, newName)
		return err
	})
	if err != nil {
		return CategoryRename{}, err
	}

	if res.OldName == res.Category.Name {
		return res, nil
	}

	return res, s.sync(ctx, "rename category", func(ctx context.Context, r Remote) error {
		return r.RenameCategory(ctx, res)
	})
}

func (s *Service) UpdateCategoryColor(ctx context.Context, id uuid.UUID, color string) (Category, error) {
	var c Category

	err := s.apply(ctx, func() (err error) {
		c, err = s.store.UpdateCategoryColor(id, color)
		return err
	})
	if err != nil {
		return Category{}, err
	}

	return c, s.sync(ctx, "update category", func(ctx context.Context, r Remote) error {
		return r.UpdateCategory(ctx, c)
	})
}

func (s *Service) AddSavingTarget(ctx context.Context, target SavingTarget) (SavingTarget, error) {
	var t SavingTarget

	err := s.apply(ctx, func() (err error) {
		t, err = s.store.AddSavingTarget(target)
		return err
	})
	if err != nil {
		return SavingTarget{}, err
	}

	return t, s.sync(ctx, "insert saving target", func(ctx context.Context, r Remote) error {
		return r.InsertSavingTarget(ctx, t)
	})
}

// DeleteSavingTarget reports whether a target existed. Nothing is synced when it did not.
func (s *Service) DeleteSavingTarget(ctx context.Context, category string) (bool, error) {
	removed := false

	err := s.apply(ctx, func() error {
		removed = s.store.DeleteSavingTarget(category)
		return nil
	})
	if err != nil {
		return false, err
	}

	if !removed {
		return false, nil
	}

	return true, s.sync(ctx, "delete saving target", func(ctx context.Context, r Remote) error {
		return r.DeleteSavingTarget(ctx, category)
	})
}

// ResetAcknowledgement is the word a user types to confirm a reset.
const ResetAcknowledgement = "削除"

// Reset wipes every entry and saving target and reseeds the default categories.
// confirmed must be true; the caller is responsible for asking the user.
func (s *Service) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("%w: reset requires confirmation", ErrValidation)
	}

	var snap Snapshot

	err := s.apply(ctx, func() error {
		s.store.ResetToDefaults()
		snap = s.store.Snapshot()

		return nil
	})
	if err != nil {
		return err
	}

	return s.sync(ctx, "reset", func(ctx context.Context, r Remote) error {
		return r.Reset(ctx, &snap)
	})
}
