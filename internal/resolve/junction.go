package resolve

import (
	"fmt"
	"slices"

	"github.com/JonMunkholm/cohort/internal/table"
)

// Junction declares a many-to-many relationship realised through a pairs
// table holding one row per (subject, attribute value).
type Junction struct {
	Identity  Identity
	Attribute string

	// LeftColumn and RightColumn name the junction's key columns, pointing at
	// the base table and the attribute table respectively.
	LeftColumn  string
	RightColumn string

	// Carry lists extra pair columns copied onto each junction row.
	Carry []string

	// Name and Dimension name the produced junction and attribute tables.
	// They default to "<attribute>_junction" and "<attribute>".
	Name      string
	Dimension string
}

// Names returns the junction and attribute table names.
func (j Junction) Names() (junction, dimension string) {
	junction, dimension = j.Name, j.Dimension
	if junction == "" {
		junction = j.Attribute + "_junction"
	}
	if dimension == "" {
		dimension = j.Attribute
	}
	return junction, dimension
}

// Validate checks the junction parameters.
func (j Junction) Validate() error {
	if j.Identity.Name == "" || j.Attribute == "" {
		return fmt.Errorf("junction %s: identity and attribute are required", j.Attribute)
	}
	if j.LeftColumn == "" || j.RightColumn == "" || j.LeftColumn == j.RightColumn ||
		j.LeftColumn == table.KeyColumn || j.RightColumn == table.KeyColumn {
		return fmt.Errorf("junction %s: invalid key columns %q, %q", j.Attribute, j.LeftColumn, j.RightColumn)
	}
	for _, c := range j.Carry {
		if c == j.LeftColumn || c == j.RightColumn || c == table.KeyColumn {
			return fmt.Errorf("junction %s: carried column %q collides with a key column", j.Attribute, c)
		}
	}
	return nil
}

// ResolveManyToMany flattens pairs into a deduplicated attribute table and a
// junction table of (base key, attribute key) rows.
//
// Every pair row must hold a non-null scalar attribute; callers drop the
// empty ones first. The junction has one row per pair row, duplicates
// included, and its base key is nil when the subject has no match. The base
// table is returned re-keyed in row order; stored ids are never trusted, so
// a base that is already densely keyed comes back unchanged.
func ResolveManyToMany(base, pairs *table.Table, j Junction) (*table.Table, *table.Table, *table.Table, error) {
	if err := j.Validate(); err != nil {
		return nil, nil, nil, err
	}
	cols := j.Identity.Columns()
	if err := checkColumns(base, cols...); err != nil {
		return nil, nil, nil, err
	}
	if err := checkColumns(pairs, append(slices.Clone(cols), j.Attribute)...); err != nil {
		return nil, nil, nil, err
	}
	if err := checkColumns(pairs, j.Carry...); err != nil {
		return nil, nil, nil, err
	}
	for i, r := range pairs.Rows {
		if v := r[j.Attribute]; v == nil || !table.Scalar(v) {
			return nil, nil, nil, &AttributeError{Table: pairs.Name, Row: i, Attribute: j.Attribute, Value: v}
		}
	}

	junctionName, dimensionName := j.Names()

	distinct, err := pairs.Distinct(dimensionName, j.Attribute)
	if err != nil {
		return nil, nil, nil, err
	}
	attrs := table.AssignKeys(distinct)
	attrKeys := make(map[any]int, attrs.Len())
	for i, r := range attrs.Rows {
		attrKeys[r[j.Attribute]], _ = attrs.Key(i)
	}

	base = table.AssignKeys(base)
	pairs = table.AssignKeys(pairs)

	left, err := lookup(pairs, base, j.Identity)
	if err != nil {
		return nil, nil, nil, err
	}

	junction := &table.Table{
		Name:    junctionName,
		Columns: append([]string{j.LeftColumn, j.RightColumn}, j.Carry...),
		Rows:    make([]table.Record, pairs.Len()),
	}
	for i, r := range pairs.Rows {
		rec := table.Record{
			j.LeftColumn:  left[i],
			j.RightColumn: attrKeys[r[j.Attribute]],
		}
		for _, c := range j.Carry {
			rec[c] = r[c]
		}
		junction.Rows[i] = rec
	}

	return base, table.AssignKeys(junction), attrs, nil
}
