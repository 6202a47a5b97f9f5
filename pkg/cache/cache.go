// Package cache provides the memoization layer for assembled node tables and
// resolved views, keyed by dataset identity.
//
// Assembly and dependency merging run once per uploaded dataset; the resolver
// runs once per focus change. Both results are byte payloads (serialized
// pkg/graph tables) stored under content-derived keys, so the same workbook
// never has to be re-folded and the same (dataset, focus) pair never has to
// be re-resolved.
//
// Backends:
//   - FileCache: XDG cache directory, for CLI usage
//   - RedisCache: shared cache for multi-instance serve deployments
//   - NullCache: caching disabled
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// TTLs per payload kind. Node tables are pure functions of the workbook
// bytes, so they only expire to bound disk usage; views are cheap to
// recompute and expire sooner.
const (
	// TTLTable is the lifetime of cached assembled node tables.
	TTLTable = 30 * 24 * time.Hour

	// TTLView is the lifetime of cached resolved views.
	TTLView = 7 * 24 * time.Hour
)

// Cache is the interface all cache backends implement.
// Implementations must treat a missing key as (nil, false, nil), not an error.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keyer - Cache Key Derivation
// =============================================================================

// ViewKeyOpts are the resolver parameters that distinguish cached views of
// the same dataset.
type ViewKeyOpts struct {
	Focus    string
	LeafDeps bool // MatchLeavesOnly resolution
}

// Keyer derives cache keys. All keys are content-addressed: the dataset hash
// is the sha256 of the canonical workbook serialization, so re-uploading an
// identical file hits the cache.
type Keyer interface {
	// DatasetKey keys the workbook itself (upload dedup).
	DatasetKey(datasetHash string) string

	// TableKey keys the assembled node table for a dataset.
	TableKey(datasetHash string) string

	// ViewKey keys one resolved view of a dataset.
	ViewKey(datasetHash string, opts ViewKeyOpts) string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// DatasetKey generates a key for workbook payloads.
func (k *DefaultKeyer) DatasetKey(datasetHash string) string {
	return hashKey("dataset", datasetHash)
}

// TableKey generates a key for assembled node tables.
func (k *DefaultKeyer) TableKey(datasetHash string) string {
	return hashKey("table", datasetHash)
}

// ViewKey generates a key for resolved views.
func (k *DefaultKeyer) ViewKey(datasetHash string, opts ViewKeyOpts) string {
	return hashKey("view", datasetHash, opts.Focus, opts.LeafDeps)
}

// =============================================================================
// ScopedKeyer - Namespaced Keys
// =============================================================================

// ScopedKeyer wraps a Keyer with a prefix so several users or environments
// can share one Redis instance without key collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DatasetKey generates a prefixed workbook key.
func (k *ScopedKeyer) DatasetKey(datasetHash string) string {
	return k.prefix + k.inner.DatasetKey(datasetHash)
}

// TableKey generates a prefixed node-table key.
func (k *ScopedKeyer) TableKey(datasetHash string) string {
	return k.prefix + k.inner.TableKey(datasetHash)
}

// ViewKey generates a prefixed view key.
func (k *ScopedKeyer) ViewKey(datasetHash string, opts ViewKeyOpts) string {
	return k.prefix + k.inner.ViewKey(datasetHash, opts)
}
