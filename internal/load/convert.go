package load

// convert.go turns record values into pgtype values for the COPY protocol
// and parameterized inserts. Nil becomes an invalid (NULL) value of the
// column's type.

import (
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/cohort/internal/schema"
	"github.com/JonMunkholm/cohort/internal/table"
)

// ToPgText converts a record value to pgtype.Text.
func ToPgText(v any) (pgtype.Text, error) {
	switch x := v.(type) {
	case nil:
		return pgtype.Text{}, nil
	case string:
		return pgtype.Text{String: x, Valid: true}, nil
	case fmt.Stringer:
		return pgtype.Text{String: x.String(), Valid: true}, nil
	}
	return pgtype.Text{}, fmt.Errorf("%T is not text", v)
}

// ToPgInt4 converts a record value to pgtype.Int4. Surrogate and foreign
// keys are plain ints; integral floats are accepted.
func ToPgInt4(v any) (pgtype.Int4, error) {
	var n int64
	switch x := v.(type) {
	case nil:
		return pgtype.Int4{}, nil
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) {
			return pgtype.Int4{}, fmt.Errorf("%v is not an integer", x)
		}
		n = int64(x)
	default:
		return pgtype.Int4{}, fmt.Errorf("%T is not an integer", v)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return pgtype.Int4{}, fmt.Errorf("%d out of range", n)
	}
	return pgtype.Int4{Int32: int32(n), Valid: true}, nil
}

// ToPgBool converts a record value to pgtype.Bool.
func ToPgBool(v any) (pgtype.Bool, error) {
	switch x := v.(type) {
	case nil:
		return pgtype.Bool{}, nil
	case bool:
		return pgtype.Bool{Bool: x, Valid: true}, nil
	}
	return pgtype.Bool{}, fmt.Errorf("%T is not a bool", v)
}

// ToPgDate converts a [day, month, year] triple to pgtype.Date.
// Calendar-invalid triples such as 31/2 are rejected.
func ToPgDate(v any) (pgtype.Date, error) {
	if v == nil {
		return pgtype.Date{}, nil
	}
	parts, ok := v.([]int)
	if !ok || len(parts) < 3 {
		return pgtype.Date{}, fmt.Errorf("%v is not a [day, month, year] date", v)
	}

	d, m, y := parts[0], parts[1], parts[2]
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m || t.Year() != y {
		return pgtype.Date{}, fmt.Errorf("%d/%d/%d is not a calendar date", d, m, y)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

// toPg converts v to the pgtype value of a column type.
func toPg(v any, ft schema.FieldType) (any, error) {
	switch ft {
	case schema.FieldInt:
		return ToPgInt4(v)
	case schema.FieldBool:
		return ToPgBool(v)
	case schema.FieldDate:
		return ToPgDate(v)
	default:
		return ToPgText(v)
	}
}

// buildRows converts rows to pgtype values in the column order of out.
func buildRows(rows []table.Record, out schema.Output) ([][]any, error) {
	result := make([][]any, len(rows))
	for i, r := range rows {
		values := make([]any, len(out.Columns))
		for j, col := range out.Columns {
			v, err := toPg(r[col.Name], col.Type)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %q: invalid value: %w", out.Name, i, col.Name, err)
			}
			values[j] = v
		}
		result[i] = values
	}
	return result, nil
}
