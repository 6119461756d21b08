package ledger

import "errors"

// Error taxonomy of the store. Every failure of a store operation wraps
// one of these sentinels so callers can map them with errors.Is.
var (
	// ErrNotFound covers both "no such entity" and "entity owned by
	// someone else" so callers cannot enumerate other owners' ids.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a category name is already taken for this owner.
	ErrConflict = errors.New("name already exists")

	// ErrInvalidReference means a transaction points at a category that
	// does not belong to the same owner.
	ErrInvalidReference = errors.New("invalid category reference")

	// ErrInvalidArgument covers malformed kinds and non-positive amounts.
	ErrInvalidArgument = errors.New("invalid argument")
)
