package table

// AssignKeys returns a copy of t with a dense surrogate key.
//
// Any existing key column is discarded first, so the operation re-derives
// rather than accumulates: keys are always 0..n-1 in current row order and are
// local to this table snapshot. The key becomes the first column.
func AssignKeys(t *Table) *Table {
	out := t.Drop(KeyColumn)
	out.Columns = append([]string{KeyColumn}, out.Columns...)
	for i, r := range out.Rows {
		r[KeyColumn] = i
	}
	return out
}

// Key returns the surrogate key of row i. ok is false when the row carries
// no int key, as in tables that never went through AssignKeys.
func (t *Table) Key(i int) (key int, ok bool) {
	key, ok = t.Rows[i][KeyColumn].(int)
	return key, ok
}
