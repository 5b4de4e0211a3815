package table

import "fmt"

// Scalar reports whether v can be used as a value key: a string, int, bool
// or float64. Dates and other composite values are not scalars.
func Scalar(v any) bool {
	switch v.(type) {
	case string, int, int64, bool, float64:
		return true
	default:
		return false
	}
}

// Distinct returns a single-column table holding the distinct values of
// column in first-occurrence order. Null values are skipped.
// It fails on a value that is not a [Scalar].
func (t *Table) Distinct(name, column string) (*Table, error) {
	out := &Table{Name: name, Columns: []string{column}}
	seen := make(map[any]struct{})
	for i, r := range t.Rows {
		v := r[column]
		if v == nil {
			continue
		}
		if !Scalar(v) {
			return nil, fmt.Errorf("distinct %s.%s: row %d holds non-scalar %T", t.Name, column, i, v)
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out.Rows = append(out.Rows, Record{column: v})
	}
	return out, nil
}
