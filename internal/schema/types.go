// Package schema describes the tables that flow through the normalizer:
// the flat inputs handed over by extraction and the normalized outputs
// handed to the loader.
package schema

// FieldType represents the data type of a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldBool
	FieldDate
)

func (t FieldType) String() string {
	switch t {
	case FieldInt:
		return "int"
	case FieldBool:
		return "bool"
	case FieldDate:
		return "date"
	default:
		return "text"
	}
}

// SQLType returns the Postgres column type for the field.
func (t FieldType) SQLType() string {
	switch t {
	case FieldInt:
		return "INTEGER"
	case FieldBool:
		return "BOOLEAN"
	case FieldDate:
		return "DATE"
	default:
		return "TEXT"
	}
}

// FieldSpec defines one column of an input table.
type FieldSpec struct {
	Name     string    // Column header name (case-insensitive match)
	Type     FieldType // Expected data type
	Required bool      // Column must exist in the file header
}

// Input describes a flat table produced by extraction.
type Input struct {
	Name   string
	Fields []FieldSpec
}

// Columns returns the input's column names in order.
func (in Input) Columns() []string {
	cols := make([]string, len(in.Fields))
	for i, f := range in.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Column defines one column of an output table.
type Column struct {
	Name string
	Type FieldType
}

// ForeignKey declares that Column references the surrogate key of another
// output table.
type ForeignKey struct {
	Column     string
	References string
}

// Output describes a normalized table as it is loaded.
type Output struct {
	Name        string
	Columns     []Column
	Junction    bool // junction tables carry no primary key
	ForeignKeys []ForeignKey
}

// ColumnNames returns the output's column names in order.
func (o Output) ColumnNames() []string {
	names := make([]string, len(o.Columns))
	for i, c := range o.Columns {
		names[i] = c.Name
	}
	return names
}
