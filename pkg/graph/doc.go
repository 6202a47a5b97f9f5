// Package graph provides serialization types for assembled node tables and
// resolved views.
//
// This package defines the canonical wire format for domainmap's node data,
// used for JSON files, API responses, caching, and the dataset store.
//
// # Architecture
//
// The package sits at the serialization boundary between the internal tree
// and external formats:
//
//   - [Table], [Node]: serialization types (this package)
//   - pkg/hierarchy.Tree: internal tree representation
//
// Use [FromTree]/[FromView] and [ToTree] to convert between them.
//
// # Format
//
// Tables use a flat node-list JSON format mirroring the renderer contract:
//
//	{
//	  "nodes": [
//	    {"id": "Sales", "label": "Sales", "level": 0, "dependencies": "None"},
//	    {"id": "Sales > Order", "label": "Order", "parent": "Sales",
//	     "level": 1, "dependencies": "Billing", "highlight": "Focused"}
//	  ]
//	}
//
// Common operations:
//
//	tbl, _ := graph.ReadTableFile("nodes.json")   // File → Table
//	graph.WriteTableFile(tbl, "out.json")         // Table → File
//	data, _ := graph.MarshalTable(tbl)            // Table → []byte
//	tree, _ := graph.ToTree(tbl)                  // Table → Tree
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
