// Package pipeline provides the core load → assemble → resolve pipeline for
// domainmap.
//
// This package implements the complete workbook-to-view pipeline shared by
// the CLI, the HTTP API, and the TUI. Centralizing it here keeps caching and
// focus semantics identical across all entry points.
//
// # Architecture
//
// The pipeline consists of two cached stages:
//
//  1. Assemble: fold workbook rows into the node table (tree plus merged
//     dependency labels)
//  2. Resolve: compute the visible, highlighted subset for a focus node
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Search: "Refund",
//	}
//	result, err := runner.Execute(ctx, workbook, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	view := result.View
//
// Run individual stages:
//
//	// Assemble only
//	tree, err := runner.Assemble(ctx, workbook, opts)
//
//	// Resolve with an existing tree
//	view, err := runner.ResolveView(ctx, tree, hash, focusID, opts)
package pipeline

import (
	"fmt"
	"time"

	"github.com/mkoller/domainmap/pkg/cache"
	"github.com/mkoller/domainmap/pkg/hierarchy"
)

// ===== Options =====

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Focus is the node ID to focus on. Empty means no focus: the full
	// table is returned with every node tagged Other.
	Focus string `json:"focus,omitempty"`

	// Search is a case-insensitive label substring. When set and Focus is
	// empty, the first matching node becomes the focus. No match leaves the
	// pipeline unfocused.
	Search string `json:"search,omitempty"`

	// LeafDeps restricts dependency label resolution to leaf nodes.
	LeafDeps bool `json:"leaf_deps,omitempty"`

	// Refresh bypasses the cache on read and overwrites it on write.
	Refresh bool `json:"refresh,omitempty"`
}

// ResolveOptions translates the pipeline options into resolver options.
func (o Options) ResolveOptions() hierarchy.ResolveOptions {
	match := hierarchy.MatchAllLabels
	if o.LeafDeps {
		match = hierarchy.MatchLeavesOnly
	}
	return hierarchy.ResolveOptions{Match: match}
}

// ViewKeyOpts returns cache key options for view resolution.
func (o Options) ViewKeyOpts(focusID string) cache.ViewKeyOpts {
	return cache.ViewKeyOpts{
		Focus:    focusID,
		LeafDeps: o.LeafDeps,
	}
}

// ===== Result =====

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the assembled node table.
	Tree *hierarchy.Tree

	// DatasetHash is the content hash of the source workbook.
	DatasetHash string

	// View is the resolved, highlighted subset for the focus.
	View hierarchy.View

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	VisibleCount int
	AssembleTime time.Duration
	ResolveTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TableHit bool // Whether the node table came from cache
	ViewHit  bool // Whether the resolved view came from cache
}

// ===== Assembly =====

// BuildTree folds workbook rows into a node table without caching. This is
// the single assembly path; the Runner wraps it with cache reads and writes.
func BuildTree(hier []hierarchy.HierarchyRow, deps []hierarchy.DependencyRow) *hierarchy.Tree {
	tree := hierarchy.Assemble(hierarchy.Paths(hier))
	tree.AttachDependencies(hierarchy.MergeDependencies(deps))
	return tree
}

// ResolveFocus maps the Focus and Search options to a focus node ID.
// An explicit Focus wins over Search; an unmatched Search falls back to no
// focus rather than failing.
func ResolveFocus(tree *hierarchy.Tree, opts Options) string {
	if opts.Focus != "" {
		return opts.Focus
	}
	if opts.Search != "" {
		if id, ok := tree.SearchLabel(opts.Search); ok {
			return id
		}
	}
	return ""
}

// ValidateFocus checks that an explicitly requested focus ID exists in the
// tree. Search misses and empty focus are not errors; a dangling explicit ID
// is, so callers can surface typos instead of silently rendering everything.
func ValidateFocus(tree *hierarchy.Tree, opts Options) error {
	if opts.Focus == "" {
		return nil
	}
	if _, ok := tree.Node(opts.Focus); !ok {
		return fmt.Errorf("unknown node id: %q", opts.Focus)
	}
	return nil
}
