package hierarchy

import (
	"slices"
	"strings"
)

// MergeDependencies aggregates dependency rows into a mapping from source
// label to the sorted, deduplicated set of target labels. Rows with a blank
// source or target are discarded. Duplicate (source, target) pairs collapse
// into one entry.
func MergeDependencies(rows []DependencyRow) map[string][]string {
	seen := make(map[string]map[string]struct{})
	for _, r := range rows {
		src := strings.TrimSpace(r.Source)
		dst := strings.TrimSpace(r.Target)
		if src == "" || dst == "" {
			continue
		}
		if seen[src] == nil {
			seen[src] = make(map[string]struct{})
		}
		seen[src][dst] = struct{}{}
	}

	merged := make(map[string][]string, len(seen))
	for src, targets := range seen {
		set := make([]string, 0, len(targets))
		for dst := range targets {
			set = append(set, dst)
		}
		slices.Sort(set)
		merged[src] = set
	}
	return merged
}

// AttachDependencies decorates nodes with their merged dependency sets,
// matching by label rather than ID. Every node sharing a source label
// receives the same set — a known ambiguity of label-based matching that
// [Resolve] mirrors on the query side. Labels without a merged entry keep a
// nil set, which renders as the explicit "None" marker.
//
// AttachDependencies is called once after [Assemble]; the table is treated
// as immutable afterwards.
func (t *Tree) AttachDependencies(merged map[string][]string) {
	for src, targets := range merged {
		for _, id := range t.byLabel[src] {
			t.nodes[id].Dependencies = slices.Clone(targets)
		}
	}
}
