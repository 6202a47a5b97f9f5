// Package render turns node tables into output artifacts.
//
// Four formats are supported:
//
//   - JSON: the serialized node table itself (pkg/graph)
//   - DOT: a Graphviz digraph with highlight-colored nodes
//   - SVG and PNG: the DOT graph rendered through Graphviz
//   - text: an indented, color-styled tree for the terminal
//
// The highlight palette is fixed: focused nodes are orange (#ff7f0e),
// dependency targets are red (#d62728), everything else is light blue
// (#aec7e8).
package render
