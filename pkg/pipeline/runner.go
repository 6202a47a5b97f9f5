package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkoller/domainmap/pkg/cache"
	"github.com/mkoller/domainmap/pkg/graph"
	"github.com/mkoller/domainmap/pkg/hierarchy"
	"github.com/mkoller/domainmap/pkg/observability"
	"github.com/mkoller/domainmap/pkg/tabular"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete assemble → resolve pipeline with caching.
func (r *Runner) Execute(ctx context.Context, wb tabular.Workbook, opts Options) (*Result, error) {
	if err := wb.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}

	result := &Result{DatasetHash: wb.Hash()}

	assembleStart := time.Now()
	observability.Pipeline().OnAssembleStart(ctx, result.DatasetHash)
	tree, tableHit, err := r.AssembleWithCacheInfo(ctx, wb, opts)
	observability.Pipeline().OnAssembleComplete(ctx, result.DatasetHash, treeLen(tree), time.Since(assembleStart), err)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Tree = tree
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.Stats.NodeCount = tree.Len()
	result.CacheInfo.TableHit = tableHit

	r.Logger.Info("assembled node table",
		"nodes", tree.Len(),
		"dataset", shortHash(result.DatasetHash),
		"duration", result.Stats.AssembleTime)

	if err := ValidateFocus(tree, opts); err != nil {
		return nil, err
	}
	focusID := ResolveFocus(tree, opts)

	resolveStart := time.Now()
	observability.Pipeline().OnResolveStart(ctx, result.DatasetHash, focusID)
	view, viewHit, err := r.ResolveViewWithCacheInfo(ctx, tree, result.DatasetHash, focusID, opts)
	observability.Pipeline().OnResolveComplete(ctx, result.DatasetHash, focusID, len(view.Nodes), time.Since(resolveStart), err)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.View = view
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.VisibleCount = len(view.Nodes)
	result.CacheInfo.ViewHit = viewHit

	r.Logger.Info("resolved view",
		"focus", focusID,
		"visible", len(view.Nodes),
		"dependencies", len(view.DepIDs),
		"duration", result.Stats.ResolveTime)

	return result, nil
}

// AssembleWithCacheInfo builds the node table with caching and returns cache
// hit info.
func (r *Runner) AssembleWithCacheInfo(ctx context.Context, wb tabular.Workbook, opts Options) (*hierarchy.Tree, bool, error) {
	if err := wb.Validate(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.TableKey(wb.Hash())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if tbl, err := graph.UnmarshalTable(data); err == nil {
				if tree, err := graph.ToTree(tbl); err == nil {
					observability.Cache().OnCacheHit(ctx, "table")
					return tree, true, nil
				}
			}
			// Corrupt entries fall through to a rebuild.
		}
		observability.Cache().OnCacheMiss(ctx, "table")
	}

	tree := BuildTree(wb.Hierarchy, wb.Dependencies)

	if data, err := graph.MarshalTable(graph.FromTree(tree)); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLTable) == nil {
			observability.Cache().OnCacheSet(ctx, "table", len(data))
		}
	}

	return tree, false, nil
}

// Assemble is a convenience wrapper that calls AssembleWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Assemble(ctx context.Context, wb tabular.Workbook, opts Options) (*hierarchy.Tree, error) {
	tree, _, err := r.AssembleWithCacheInfo(ctx, wb, opts)
	return tree, err
}

// ResolveViewWithCacheInfo resolves the highlighted view with caching and
// returns cache hit info. The datasetHash scopes the cache entry to the
// workbook the tree was assembled from.
func (r *Runner) ResolveViewWithCacheInfo(ctx context.Context, tree *hierarchy.Tree, datasetHash, focusID string, opts Options) (hierarchy.View, bool, error) {
	cacheKey := r.Keyer.ViewKey(datasetHash, opts.ViewKeyOpts(focusID))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached hierarchy.View
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "view")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "view")
	}

	view := hierarchy.Resolve(tree, focusID, opts.ResolveOptions())

	if data, err := json.Marshal(view); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLView) == nil {
			observability.Cache().OnCacheSet(ctx, "view", len(data))
		}
	}

	return view, false, nil
}

// ResolveView is a convenience wrapper that calls ResolveViewWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ResolveView(ctx context.Context, tree *hierarchy.Tree, datasetHash, focusID string, opts Options) (hierarchy.View, error) {
	view, _, err := r.ResolveViewWithCacheInfo(ctx, tree, datasetHash, focusID, opts)
	return view, err
}

// shortHash abbreviates a dataset hash for log output.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func treeLen(t *hierarchy.Tree) int {
	if t == nil {
		return 0
	}
	return t.Len()
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
