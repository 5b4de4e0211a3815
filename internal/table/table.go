// Package table provides the in-memory entity tables the normalizer works on.
//
// A [Table] is a named, ordered set of columns and a slice of [Record] rows.
// Records are loosely typed: values are string, int, bool, float64, a date
// triple ([]int as [day, month, year]) or nil for null. Every operation in this
// package returns a new table and leaves its input untouched, so a table value
// can be threaded through a pipeline without aliasing surprises.
package table

import (
	"fmt"
	"slices"
)

// KeyColumn is the name of the surrogate-key column.
const KeyColumn = "id"

// Record is one row of a table, keyed by column name.
type Record map[string]any

// Table is a named collection of records sharing a column set.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

// New creates a table with the given columns and rows.
// Rows are copied; columns missing from a row read as null.
func New(name string, columns []string, rows ...Record) *Table {
	t := &Table{
		Name:    name,
		Columns: slices.Clone(columns),
		Rows:    make([]Record, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, cloneRecord(r))
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the table declares the column.
func (t *Table) Has(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Clone returns a copy of the table. Row maps are copied, values are shared.
func (t *Table) Clone() *Table {
	return New(t.Name, t.Columns, t.Rows...)
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// Drop returns a copy without the named columns. Unknown names are ignored.
func (t *Table) Drop(columns ...string) *Table {
	out := t.Clone()
	out.Columns = slices.DeleteFunc(out.Columns, func(c string) bool {
		return slices.Contains(columns, c)
	})
	for _, r := range out.Rows {
		for _, c := range columns {
			delete(r, c)
		}
	}
	return out
}

// Append returns a copy with a new trailing column holding values.
// An existing column of the same name is replaced in place.
func (t *Table) Append(column string, values []any) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("append %s.%s: %d values for %d rows", t.Name, column, len(values), len(t.Rows))
	}
	out := t.Clone()
	if !out.Has(column) {
		out.Columns = append(out.Columns, column)
	}
	for i, r := range out.Rows {
		r[column] = values[i]
	}
	return out, nil
}

// Project returns a copy restricted to the named columns, in that order.
func (t *Table) Project(columns ...string) (*Table, error) {
	for _, c := range columns {
		if !t.Has(c) {
			return nil, fmt.Errorf("project %s: unknown column %q", t.Name, c)
		}
	}
	out := &Table{
		Name:    t.Name,
		Columns: slices.Clone(columns),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		rec := make(Record, len(columns))
		for _, c := range columns {
			rec[c] = r[c]
		}
		out.Rows[i] = rec
	}
	return out, nil
}

// DropNull returns a copy without the rows whose column is null or absent.
func (t *Table) DropNull(column string) *Table {
	out := &Table{Name: t.Name, Columns: slices.Clone(t.Columns)}
	for _, r := range t.Rows {
		if r[column] == nil {
			continue
		}
		out.Rows = append(out.Rows, cloneRecord(r))
	}
	return out
}

// Rename returns a copy carrying a different table name.
func (t *Table) Rename(name string) *Table {
	out := t.Clone()
	out.Name = name
	return out
}

func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
