package ledger

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store holds expenses, categories and saving targets in memory and applies mutations
// that keep them consistent. Every mutation runs against a private copy of the state
// and is committed only if it succeeds, so callers never observe a partial change.
type Store struct {
	mu    sync.RWMutex
	state Snapshot

	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*Store)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new entity IDs are generated.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a store holding a copy of snap.
func NewStore(snap Snapshot, opts ...Option) *Store {
	s := &Store{
		state: snap.Clone(),
		now:   time.Now,
		newID: uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewDefaultStore creates a store seeded with the default categories.
func NewDefaultStore(opts ...Option) *Store {
	s := NewStore(Snapshot{}, opts...)
	s.state = DefaultSnapshot(s.newID)

	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}

// Restore replaces the whole state with a copy of snap.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = snap.Clone()
}

// update runs fn against a copy of the state and commits the copy only when fn succeeds.
func (s *Store) update(fn func(st *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	s.state = next

	return nil
}

func (s *Store) Expenses() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.state.Expenses)
}

func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.state.Categories)
}

func (s *Store) SavingTargets() []SavingTarget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.state.SavingTargets)
}

func (s *Store) Expense(id uuid.UUID) (Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := expenseIndex(s.state.Expenses, id)
	if i < 0 {
		return Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}

	return s.state.Expenses[i], nil
}

func (s *Store) Category(id uuid.UUID) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := categoryIndex(s.state.Categories, id)
	if i < 0 {
		return Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	return s.state.Categories[i], nil
}

func (s *Store) CategoryByName(name string) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := categoryNameIndex(s.state.Categories, name)
	if i < 0 {
		return Category{}, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}

	return s.state.Categories[i], nil
}

// CategoryUsage returns how many entries reference the category name.
func (s *Store) CategoryUsage(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0

	for _, e := range s.state.Expenses {
		if e.Category == name {
			n++
		}
	}

	return n
}

func (s *Store) AddExpense(params ExpenseParams) (Expense, error) {
	var created Expense

	err := s.update(func(st *Snapshot) error {
		if err := validateExpense(params); err != nil {
			return err
		}

		ci := categoryNameIndex(st.Categories, params.Category)
		if ci < 0 {
			return fmt.Errorf("%w: unknown category %q", ErrValidation, params.Category)
		}

		if st.Categories[ci].Type != params.Type {
			return fmt.Errorf("%w: category %q is for %s entries", ErrValidation, params.Category, st.Categories[ci].Type)
		}

		created = Expense{
			ID:        s.newID(),
			Date:      params.Date,
			Category:  params.Category,
			Amount:    params.Amount,
			Memo:      params.Memo,
			Type:      params.Type,
			CreatedAt: s.now(),
		}
		st.Expenses = append(st.Expenses, created)

		return nil
	})
	if err != nil {
		return Expense{}, err
	}

	return created, nil
}

func validateExpense(p ExpenseParams) error {
	if strings.TrimSpace(p.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}

	if _, err := time.Parse(time.DateOnly, p.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, p.Date)
	}

	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}

	if !p.Type.Valid() {
		return fmt.Errorf("%w: invalid type %q", ErrValidation, p.Type)
	}

	return validateAmount(p.Amount)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrValidation, amount)
	}

	return nil
}

func (s *Store) DeleteExpense(id uuid.UUID) (Expense, error) {
	var removed Expense

	err := s.update(func(st *Snapshot) error {
		i := expenseIndex(st.Expenses, id)
		if i < 0 {
			return fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}

		removed = st.Expenses[i]
		st.Expenses = slices.Delete(st.Expenses, i, i+1)

		return nil
	})
	if err != nil {
		return Expense{}, err
	}

	return removed, nil
}

func (s *Store) UpdateExpenseAmount(id uuid.UUID, amount decimal.Decimal) (Expense, error) {
	var updated Expense

	err := s.update(func(st *Snapshot) error {
		if err := validateAmount(amount); err != nil {
			return err
		}

		i := expenseIndex(st.Expenses, id)
		if i < 0 {
			return fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}

		st.Expenses[i].Amount = amount
		updated = st.Expenses[i]

		return nil
	})
	if err != nil {
		return Expense{}, err
	}

	return updated, nil
}

func (s *Store) AddCategory(params CategoryParams) (Category, error) {
	var created Category

	err := s.update(func(st *Snapshot) error {
		name := strings.TrimSpace(params.Name)
		if name == "" {
			return fmt.Errorf("%w: category name is required", ErrValidation)
		}

		if !params.Type.Valid() {
			return fmt.Errorf("%w: invalid type %q", ErrValidation, params.Type)
		}

		if categoryNameIndex(st.Categories, name) >= 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}

		color := params.Color
		if color == "" {
			color = DefaultColor
		}

		created = Category{
			ID:        s.newID(),
			Name:      name,
			Color:     color,
			IsDefault: params.IsDefault,
			Type:      params.Type,
		}
		st.Categories = append(st.Categories, created)

		return nil
	})
	if err != nil {
		return Category{}, err
	}

	return created, nil
}

// DeleteCategory removes a category. When entries reference it the call fails with
// ErrCategoryInUse unless cascade is set, in which case those entries and the
// category's saving target go with it.
func (s *Store) DeleteCategory(id uuid.UUID, cascade bool) (CategoryDeletion, error) {
	var res CategoryDeletion

	err := s.update(func(st *Snapshot) error {
		ci := categoryIndex(st.Categories, id)
		if ci < 0 {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}

		cat := st.Categories[ci]

		var kept, removed []Expense

		for _, e := range st.Expenses {
			if e.Category == cat.Name {
				removed = append(removed, e)
				continue
			}

			kept = append(kept, e)
		}

		if len(removed) > 0 && !cascade {
			return fmt.Errorf("%w: %d entries use %q", ErrCategoryInUse, len(removed), cat.Name)
		}

		if ti := targetIndex(st.SavingTargets, cat.Name); ti >= 0 {
			target := st.SavingTargets[ti]
			res.Target = &target
			st.SavingTargets = slices.Delete(st.SavingTargets, ti, ti+1)
		}

		if kept == nil {
			kept = []Expense{}
		}

		st.Expenses = kept
		st.Categories = slices.Delete(st.Categories, ci, ci+1)
		res.Category = cat
		res.Expenses = removed

		return nil
	})
	if err != nil {
		return CategoryDeletion{}, err
	}

	return res, nil
}

// RenameCategory changes a category's name and rewrites every entry and saving target
// that referenced the old name.
func (s *Store) RenameCategory(id uuid.UUID, newName string) (CategoryRename, error) {
	var res CategoryRename

	err := s.update(func(st *Snapshot) error {
		newName = strings.TrimSpace(newName)
		if newName == "" {
			return fmt.Errorf("%w: category name is required", ErrValidation)
		}

		ci := categoryIndex(st.Categories, id)
		if ci < 0 {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}

		if other := categoryNameIndex(st.Categories, newName); other >= 0 && other != ci {
			return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
		}

		oldName := st.Categories[ci].Name
		res.OldName = oldName

		if oldName != newName {
			st.Categories[ci].Name = newName

			for i := range st.Expenses {
				if st.Expenses[i].Category == oldName {
					st.Expenses[i].Category = newName
					res.ExpenseIDs = append(res.ExpenseIDs, st.Expenses[i].ID)
				}
			}

			if ti := targetIndex(st.SavingTargets, oldName); ti >= 0 {
				st.SavingTargets[ti].Category = newName
				res.TargetRenamed = true
			}
		}

		res.Category = st.Categories[ci]

		return nil
	})
	if err != nil {
		return CategoryRename{}, err
	}

	return res, nil
}

func (s *Store) UpdateCategoryColor(id uuid.UUID, color string) (Category, error) {
	var updated Category

	err := s.update(func(st *Snapshot) error {
		ci := categoryIndex(st.Categories, id)
		if ci < 0 {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}

		st.Categories[ci].Color = color
		updated = st.Categories[ci]

		return nil
	})
	if err != nil {
		return Category{}, err
	}

	return updated, nil
}

func (s *Store) AddSavingTarget(target SavingTarget) (SavingTarget, error) {
	err := s.update(func(st *Snapshot) error {
		if strings.TrimSpace(target.Category) == "" {
			return fmt.Errorf("%w: category is required", ErrValidation)
		}

		if err := validateAmount(target.Amount); err != nil {
			return err
		}

		if categoryNameIndex(st.Categories, target.Category) < 0 {
			return fmt.Errorf("%w: unknown category %q", ErrValidation, target.Category)
		}

		if targetIndex(st.SavingTargets, target.Category) >= 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateTarget, target.Category)
		}

		st.SavingTargets = append(st.SavingTargets, target)

		return nil
	})
	if err != nil {
		return SavingTarget{}, err
	}

	return target, nil
}

// DeleteSavingTarget removes the target for category and reports whether one existed.
func (s *Store) DeleteSavingTarget(category string) bool {
	removed := false

	_ = s.update(func(st *Snapshot) error {
		ti := targetIndex(st.SavingTargets, category)
		if ti < 0 {
			return nil
		}

		st.SavingTargets = slices.Delete(st.SavingTargets, ti, ti+1)
		removed = true

		return nil
	})

	return removed
}

// ResetToDefaults drops every entry and saving target and reseeds the default categories.
func (s *Store) ResetToDefaults() {
	_ = s.update(func(st *Snapshot) error {
		*st = DefaultSnapshot(s.newID)
		return nil
	})
}

func expenseIndex(expenses []Expense, id uuid.UUID) int {
	return slices.IndexFunc(expenses, func(e Expense) bool { return e.ID == id })
}

func categoryIndex(categories []Category, id uuid.UUID) int {
	return slices.IndexFunc(categories, func(c Category) bool { return c.ID == id })
}

func categoryNameIndex(categories []Category, name string) int {
	return slices.IndexFunc(categories, func(c Category) bool { return c.Name == name })
}

func targetIndex(targets []SavingTarget, category string) int {
	return slices.IndexFunc(targets, func(t SavingTarget) bool { return t.Category == category })
}
