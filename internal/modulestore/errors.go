package modulestore

import "errors"

// Sentinel errors returned by ModuleStore and its Puller, wrapped with %w so
// callers can test for them with errors.Is. server/image_pull.go reports any
// Pull failure as Internal regardless of which sentinel it wraps.
var (
	// ErrNotFound is returned by Remove when no catalog entry matches.
	ErrNotFound = errors.New("module not found")
	// ErrCannotPullModule wraps a failure of the underlying pull primitive.
	ErrCannotPullModule = errors.New("cannot pull module")
	// ErrInvalidPullPath is returned when the on-disk path cannot be derived
	// under the store's root directory. A reference whose components would
	// climb out of the root is not rejected: securejoin scopes the derived
	// path back inside the root instead.
	ErrInvalidPullPath = errors.New("invalid pull path")
	// ErrCannotFetchModuleMetadata is returned when the pulled file cannot be
	// stat'd after a successful pull.
	ErrCannotFetchModuleMetadata = errors.New("cannot fetch module metadata")
)
