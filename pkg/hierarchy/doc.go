// Package hierarchy implements the in-memory graph model at the heart of
// domainmap: flat workbook rows become a deduplicated tree of nodes keyed by
// delimiter-joined path, leaf nodes carry merged dependency sets, and a
// resolver computes the visible, highlighted subset for a focus node.
//
// # Pipeline position
//
// Data flows one way through this package:
//
//	rows → Paths → Assemble → AttachDependencies → Resolve (per focus)
//
// Assembly and decoration run once per dataset; Resolve runs once per focus
// change and is pure given (tree, focus ID, options).
//
// # Identity
//
// A node's ID is its path joined with " > ", so ancestry is encoded in the
// ID itself. Subtree membership is still checked at delimiter boundaries —
// plain string-prefix containment would claim "Sales > Order2" as a child of
// "Sales > Order".
//
// # Error posture
//
// Nothing in this package returns an error for data-shape issues. Broken
// parent chains end the ancestor walk, unknown dependency labels resolve to
// nothing, ambiguous labels expand to all matches, and empty searches leave
// the focus unchanged. Structural input failures (missing sheets or columns)
// are the ingestion layer's responsibility, see pkg/tabular.
package hierarchy
