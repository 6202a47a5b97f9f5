// Package pkg provides the core libraries for domainmap.
//
// # Overview
//
// Domainmap turns tabular business hierarchies into a navigable dependency
// map: workbook rows become a deduplicated tree, leaf dependency rows are
// merged onto it, and a focus-driven resolver computes which nodes to show
// and how to highlight them. The pkg directory is organized into:
//
//  1. [hierarchy] - Domain logic (paths, tree assembly, dependency merge, resolver)
//  2. [tabular] - Workbook ingestion (JSON and CSV sheets)
//  3. [graph] - Node table serialization
//  4. [pipeline] - Orchestration (assemble → resolve) with caching
//  5. [cache], [session], [store] - Infrastructure (memoization, focus state, persistence)
//  6. [render] - Output (JSON, DOT, SVG, PNG, terminal text)
//
// # Architecture
//
// The typical data flow through domainmap:
//
//	Workbook (hierarchy + dependency sheets)
//	         ↓
//	    [tabular] package (ingest rows)
//	         ↓
//	    [hierarchy] package (assemble tree, merge dependencies)
//	         ↓
//	    [hierarchy] resolver (focus → visible, highlighted subset)
//	         ↓
//	    [render] package (JSON/DOT/SVG/PNG/text output)
//
// # Quick Start
//
//	wb, _ := tabular.ReadJSONFile("workbook.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, wb, pipeline.Options{Search: "refund"})
package pkg
