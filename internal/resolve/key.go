package resolve

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/cohort/internal/table"
)

// Identity names the columns that identify a subject-event: a person name
// and, optionally, a [day, month, year] date.
type Identity struct {
	Name string
	Date string
}

// ByName returns a name-only identity.
func ByName(name string) Identity { return Identity{Name: name} }

// ByNameAndDate returns a name plus date identity.
func ByNameAndDate(name, date string) Identity { return Identity{Name: name, Date: date} }

// Columns returns the identity columns in order.
func (id Identity) Columns() []string {
	if id.Date == "" {
		return []string{id.Name}
	}
	return []string{id.Name, id.Date}
}

// NaturalKey is the matching key derived from a record's identity. It is
// comparable and used directly as a map key. The day of the date is not part
// of the key: sources agree on month and year only.
type NaturalKey struct {
	Name  string
	Month int
	Year  int
	Dated bool
}

// String renders the key as "<lower name> <month><year>", or just the lower
// name for undated keys.
func (k NaturalKey) String() string {
	if !k.Dated {
		return k.Name
	}
	return k.Name + " " + strconv.Itoa(k.Month) + strconv.Itoa(k.Year)
}

// BuildKey derives the natural key of one record.
func BuildKey(rec table.Record, id Identity) (NaturalKey, error) {
	return buildKey(rec, id, "", 0)
}

func buildKey(rec table.Record, id Identity, tableName string, row int) (NaturalKey, error) {
	name, ok := rec[id.Name].(string)
	if !ok {
		return NaturalKey{}, &InvalidIdentityError{
			Table:  tableName,
			Row:    row,
			Column: id.Name,
			Reason: describe(rec[id.Name], "a string"),
		}
	}
	key := NaturalKey{Name: strings.ToLower(name)}
	if id.Date == "" {
		return key, nil
	}

	date, ok := rec[id.Date].([]int)
	if !ok || len(date) < 3 {
		return NaturalKey{}, &InvalidIdentityError{
			Table:  tableName,
			Row:    row,
			Column: id.Date,
			Reason: describe(rec[id.Date], "a [day, month, year] date"),
		}
	}
	key.Month, key.Year, key.Dated = date[1], date[2], true
	return key, nil
}

func describe(v any, want string) string {
	switch x := v.(type) {
	case nil:
		return "null, want " + want
	case []int:
		return strconv.Itoa(len(x)) + "-element date, want " + want
	default:
		return typeName(v) + ", want " + want
	}
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "integer"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "composite value"
	}
}

// checkColumns fails with a SchemaMismatchError for the first identity column
// that t does not declare.
func checkColumns(t *table.Table, columns ...string) error {
	for _, c := range columns {
		if !t.Has(c) {
			return &SchemaMismatchError{Table: t.Name, Column: c}
		}
	}
	return nil
}
