// Package resolve matches rows of independently produced flat tables and
// links them with surrogate foreign keys.
//
// Rows are matched on a [NaturalKey] derived from their [Identity] columns.
// Matching is exact: the first row (lowest surrogate key) of the referenced
// table with an equal key wins, and a row without any match gets a null
// foreign key instead of an error. Structural problems, such as a missing
// identity column or a malformed date, abort the call with a typed error.
package resolve

import (
	"fmt"
	"slices"

	"github.com/JonMunkholm/cohort/internal/table"
)

// Cardinality is the declared shape of a binary relationship.
type Cardinality string

const (
	OneToOne        Cardinality = "1-to-1"
	ZeroOrOneToOne  Cardinality = "0-or-1-to-1"
	OneToMany       Cardinality = "1-to-many"
	ZeroOrOneToMany Cardinality = "0-or-1-to-many"
)

// ParseCardinality validates a cardinality name.
func ParseCardinality(s string) (Cardinality, error) {
	switch c := Cardinality(s); c {
	case OneToOne, ZeroOrOneToOne, OneToMany, ZeroOrOneToMany:
		return c, nil
	default:
		return "", fmt.Errorf("unknown cardinality %q", s)
	}
}

// Side selects the table of a pair.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Link declares a binary relationship between a left and a right table.
//
// FKSide only matters for 1-to-1 links and defaults to the left side. Every
// other cardinality places the foreign key on the right ("many") side.
type Link struct {
	Identity    Identity
	Cardinality Cardinality
	FKColumn    string
	FKSide      Side
}

// Validate checks the link parameters.
func (l Link) Validate() error {
	if l.Identity.Name == "" {
		return fmt.Errorf("link %s: identity name column is required", l.FKColumn)
	}
	if _, err := ParseCardinality(string(l.Cardinality)); err != nil {
		return fmt.Errorf("link %s: %w", l.FKColumn, err)
	}
	if l.FKColumn == "" || l.FKColumn == table.KeyColumn || slices.Contains(l.Identity.Columns(), l.FKColumn) {
		return fmt.Errorf("link: invalid foreign key column %q", l.FKColumn)
	}
	switch l.FKSide {
	case "", SideLeft, SideRight:
	default:
		return fmt.Errorf("link %s: unknown side %q", l.FKColumn, l.FKSide)
	}
	return nil
}

// HoldsOnLeft reports whether the foreign key is written into the left table.
func (l Link) HoldsOnLeft() bool {
	return l.Cardinality == OneToOne && l.FKSide != SideRight
}

// Resolve assigns fresh surrogate keys to both tables and adds link.FKColumn
// to the side that holds the foreign key. Each value is the key of the first
// matching row on the other side, or nil when nothing matches.
func Resolve(left, right *table.Table, link Link) (*table.Table, *table.Table, error) {
	if err := link.Validate(); err != nil {
		return nil, nil, err
	}
	cols := link.Identity.Columns()
	if err := checkColumns(left, cols...); err != nil {
		return nil, nil, err
	}
	if err := checkColumns(right, cols...); err != nil {
		return nil, nil, err
	}

	left = table.AssignKeys(left)
	right = table.AssignKeys(right)

	holder, target := right, left
	if link.HoldsOnLeft() {
		holder, target = left, right
	}

	fk, err := lookup(holder, target, link.Identity)
	if err != nil {
		return nil, nil, err
	}
	holder, err = holder.Append(link.FKColumn, fk)
	if err != nil {
		return nil, nil, err
	}

	if link.HoldsOnLeft() {
		return holder, target, nil
	}
	return target, holder, nil
}

// lookup returns, for every row of holder, the surrogate key of its first
// natural-key match in target or nil.
func lookup(holder, target *table.Table, id Identity) ([]any, error) {
	idx, err := buildIndex(target, id)
	if err != nil {
		return nil, err
	}
	out := make([]any, holder.Len())
	for i, r := range holder.Rows {
		k, err := buildKey(r, id, holder.Name, i)
		if err != nil {
			return nil, err
		}
		if key, ok := idx[k]; ok {
			out[i] = key
		}
	}
	return out, nil
}

// index maps a natural key to the lowest surrogate key carrying it.
type index map[NaturalKey]int

func buildIndex(t *table.Table, id Identity) (index, error) {
	idx := make(index, t.Len())
	for i, r := range t.Rows {
		k, err := buildKey(r, id, t.Name, i)
		if err != nil {
			return nil, err
		}
		if _, seen := idx[k]; seen {
			continue
		}
		key, ok := t.Key(i)
		if !ok {
			return nil, fmt.Errorf("%s row %d: missing surrogate key", t.Name, i)
		}
		idx[k] = key
	}
	return idx, nil
}
