package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validate checks the cross-entity invariants of a snapshot that did not come from the
// Store, such as one fetched from a remote. Every problem found is reported, each
// wrapping ErrValidation.
func (s Snapshot) Validate() error {
	var errs []error

	types := make(map[string]Type, len(s.Categories))

	for _, c := range s.Categories {
		name := strings.TrimSpace(c.Name)

		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("%w: category %s has no name", ErrValidation, c.ID))
		case !c.Type.Valid():
			errs = append(errs, fmt.Errorf("%w: category %q has invalid type %q", ErrValidation, c.Name, c.Type))
		default:
			if _, dup := types[c.Name]; dup {
				errs = append(errs, fmt.Errorf("%w: duplicate category name %q", ErrValidation, c.Name))
				continue
			}

			types[c.Name] = c.Type
		}
	}

	ids := make(map[uuid.UUID]struct{}, len(s.Expenses))

	for _, e := range s.Expenses {
		if e.ID != uuid.Nil {
			if _, dup := ids[e.ID]; dup {
				errs = append(errs, fmt.Errorf("%w: duplicate entry id %s", ErrValidation, e.ID))
				continue
			}

			ids[e.ID] = struct{}{}
		}

		if err := validateExpense(ExpenseParams{Date: e.Date, Category: e.Category, Amount: e.Amount, Type: e.Type}); err != nil {
			errs = append(errs, fmt.Errorf("entry %s: %w", e.ID, err))
			continue
		}

		typ, ok := types[e.Category]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: entry %s has unknown category %q", ErrValidation, e.ID, e.Category))
		case typ != e.Type:
			errs = append(errs, fmt.Errorf("%w: entry %s is %s but category %q is %s", ErrValidation, e.ID, e.Type, e.Category, typ))
		}
	}

	targets := make(map[string]struct{}, len(s.SavingTargets))

	for _, t := range s.SavingTargets {
		if _, dup := targets[t.Category]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate saving target for %q", ErrValidation, t.Category))
			continue
		}

		targets[t.Category] = struct{}{}

		if _, ok := types[t.Category]; !ok {
			errs = append(errs, fmt.Errorf("%w: saving target for unknown category %q", ErrValidation, t.Category))
		}

		if err := validateAmount(t.Amount); err != nil {
			errs = append(errs, fmt.Errorf("saving target %q: %w", t.Category, err))
		}
	}

	return errors.Join(errs...)
}
