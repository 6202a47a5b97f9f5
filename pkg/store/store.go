// Package store persists assembled node tables across restarts of the serve
// mode, keyed by dataset content hash. The cache layer (pkg/cache) makes
// recomputation cheap within one process; the store makes uploaded datasets
// durable so a restarted or second instance can serve sessions against them
// without a re-upload.
package store

import (
	"context"

	"github.com/mkoller/domainmap/pkg/graph"
)

// Store is the interface dataset stores implement.
type Store interface {
	// SaveTable upserts the assembled node table for a dataset.
	SaveTable(ctx context.Context, dataset string, tbl graph.Table) error

	// LoadTable retrieves the node table for a dataset.
	// The second return reports whether the dataset was found.
	LoadTable(ctx context.Context, dataset string) (graph.Table, bool, error)

	// Datasets lists the stored dataset hashes.
	Datasets(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
