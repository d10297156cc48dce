package ledger

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateName   = errors.New("category name already exists")
	ErrDuplicateTarget = errors.New("saving target already exists for category")
	ErrCategoryInUse   = errors.New("category is referenced by entries")
	ErrNotFound        = errors.New("not found")

	// ErrRemoteSync marks a failed best-effort remote call. The local change it
	// accompanies has already been applied and persisted.
	ErrRemoteSync = errors.New("remote sync failed")
)
