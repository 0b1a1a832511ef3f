// Package csvtab reads a CSV document into a table addressed by column
// name. Instrument exports vary in header spelling and casing, so lookups
// are case-insensitive and whitespace-trimmed.
package csvtab

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

type Table struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

// Read parses CSV from r. The first record is the header row. Records may
// be ragged; short rows read as empty fields.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return &Table{index: map[string]int{}}, nil
	}

	t := &Table{
		headers: records[0],
		index:   make(map[string]int, len(records[0])),
		rows:    records[1:],
	}
	for i, h := range records[0] {
		key := normalize(h)
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}
	return t, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Headers() []string { return t.headers }

// HasColumn reports whether any of the given header aliases is present.
func (t *Table) HasColumn(names ...string) bool {
	for _, n := range names {
		if _, ok := t.index[normalize(n)]; ok {
			return true
		}
	}
	return false
}

// Field returns the value at row i under the first matching alias, or ""
// when the column is absent or the row is short.
func (t *Table) Field(i int, names ...string) string {
	if i < 0 || i >= len(t.rows) {
		return ""
	}
	row := t.rows[i]
	for _, n := range names {
		col, ok := t.index[normalize(n)]
		if !ok {
			continue
		}
		if col < len(row) {
			return strings.TrimSpace(row[col])
		}
		return ""
	}
	return ""
}

// Row returns row i as a header→value map, for passthrough fields.
func (t *Table) Row(i int) map[string]string {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	out := make(map[string]string, len(t.headers))
	for col, h := range t.headers {
		if col < len(t.rows[i]) {
			out[strings.TrimSpace(h)] = strings.TrimSpace(t.rows[i][col])
		}
	}
	return out
}
