package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/mkoller/domainmap/pkg/hierarchy"
)

// ReadCSV parses the hierarchy and dependency sheets from two CSV streams.
// Each stream must start with a header row; columns are matched by the exact
// workbook column names and may appear in any order. Extra columns are
// ignored. The hierarchy sheet accepts any subset of the six level columns
// (absent columns read as empty cells); the dependency sheet requires both
// of its columns — without them no edge can be formed, which is a structural
// failure this layer must report rather than swallow.
func ReadCSV(hier, deps io.Reader) (Workbook, error) {
	var w Workbook

	hierRecords, err := readSheet(hier)
	if err != nil {
		return Workbook{}, fmt.Errorf("hierarchy sheet: %w", err)
	}
	if len(hierRecords) > 0 {
		cols := indexColumns(hierRecords[0])
		known := false
		for _, name := range hierarchy.LevelColumns {
			if _, ok := cols[name]; ok {
				known = true
				break
			}
		}
		if !known {
			return Workbook{}, fmt.Errorf("hierarchy sheet: none of the recognized level columns found in header %v", hierRecords[0])
		}
		for _, rec := range hierRecords[1:] {
			w.Hierarchy = append(w.Hierarchy, hierarchy.HierarchyRow{
				DataDomainL1:      cell(rec, cols, hierarchy.ColDataDomainL1),
				BusinessProcessL1: cell(rec, cols, hierarchy.ColBusinessProcessL1),
				BusinessProcessL2: cell(rec, cols, hierarchy.ColBusinessProcessL2),
				DataDomainL2:      cell(rec, cols, hierarchy.ColDataDomainL2),
				DataDomainL3:      cell(rec, cols, hierarchy.ColDataDomainL3),
				UseCase:           cell(rec, cols, hierarchy.ColUseCase),
			})
		}
	}

	if deps != nil {
		depRecords, err := readSheet(deps)
		if err != nil {
			return Workbook{}, fmt.Errorf("dependency sheet: %w", err)
		}
		if len(depRecords) > 0 {
			cols := indexColumns(depRecords[0])
			if _, ok := cols[hierarchy.ColDataDomainL3]; !ok {
				return Workbook{}, fmt.Errorf("dependency sheet: missing column %q", hierarchy.ColDataDomainL3)
			}
			if _, ok := cols[hierarchy.ColDependencyTarget]; !ok {
				return Workbook{}, fmt.Errorf("dependency sheet: missing column %q", hierarchy.ColDependencyTarget)
			}
			for _, rec := range depRecords[1:] {
				w.Dependencies = append(w.Dependencies, hierarchy.DependencyRow{
					Source: cell(rec, cols, hierarchy.ColDataDomainL3),
					Target: cell(rec, cols, hierarchy.ColDependencyTarget),
				})
			}
		}
	}

	w.trim()
	return w, nil
}

// ReadCSVFiles reads the two sheets from files. depsPath may be empty for a
// dataset without a dependency sheet.
func ReadCSVFiles(hierPath, depsPath string) (Workbook, error) {
	hf, err := os.Open(hierPath)
	if err != nil {
		return Workbook{}, fmt.Errorf("open %s: %w", hierPath, err)
	}
	defer hf.Close()

	var df io.Reader
	if depsPath != "" {
		f, err := os.Open(depsPath)
		if err != nil {
			return Workbook{}, fmt.Errorf("open %s: %w", depsPath, err)
		}
		defer f.Close()
		df = f
	}

	return ReadCSV(hf, df)
}

// readSheet reads all CSV records, tolerating rows with varying field counts
// (trailing blank cells are frequently dropped by spreadsheet exports).
func readSheet(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

// indexColumns maps trimmed header names to their positions.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[trimCell(name)] = i
	}
	return cols
}

// cell returns the named column's value from a record, or "" when the column
// is absent or the record is short.
func cell(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}
