package tabular

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadJSON decodes a JSON workbook from r:
//
//	{
//	  "hierarchy":    [{"Data Domain L1": "Sales", "Business Process L1": "Order", ...}],
//	  "dependencies": [{"Data Domain L3": "Refund", "Data Domain L3 - Dependency": "Billing"}]
//	}
//
// Row objects are keyed by the exact workbook column names; unknown keys are
// ignored and missing keys read as empty cells. All cells are trimmed.
func ReadJSON(r io.Reader) (Workbook, error) {
	var w Workbook
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return Workbook{}, fmt.Errorf("decode workbook: %w", err)
	}
	w.trim()
	return w, nil
}

// ReadJSONFile reads a JSON workbook from a file.
func ReadJSONFile(path string) (Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return Workbook{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w, err := ReadJSON(f)
	if err != nil {
		return Workbook{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

func trimCell(s string) string { return strings.TrimSpace(s) }
