package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Table Serialization API
// =============================================================================

// MarshalTable converts a node table to indented JSON bytes.
func MarshalTable(t Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTableTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTable deserializes JSON bytes to a node table.
func UnmarshalTable(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, err
	}
	return t, nil
}

// WriteTable writes a node table as JSON to an io.Writer.
func WriteTable(t Table, w io.Writer) error {
	return writeTableTo(t, w)
}

// WriteTableFile writes a node table to a JSON file.
// The file is created with 0644 permissions.
func WriteTableFile(t Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTableTo(t, f)
}

// ReadTable decodes a JSON node table from an io.Reader.
func ReadTable(r io.Reader) (Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Table{}, fmt.Errorf("decode: %w", err)
	}
	return t, nil
}

// ReadTableFile reads a JSON file and returns the decoded node table.
func ReadTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTable(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTableTo(t Table, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
