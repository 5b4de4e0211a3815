package table

import (
	"reflect"
	"testing"
)

// ----------------------------------------------------------------------------
// AssignKeys Tests
// ----------------------------------------------------------------------------

func TestAssignKeys_Dense(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7} {
		rows := make([]Record, n)
		for i := range rows {
			rows[i] = Record{"name": "x"}
		}
		got := AssignKeys(New("people", []string{"name"}, rows...))

		if got.Len() != n {
			t.Fatalf("n=%d: Len() = %d", n, got.Len())
		}
		if got.Columns[0] != KeyColumn {
			t.Errorf("n=%d: first column = %q, want %q", n, got.Columns[0], KeyColumn)
		}
		for i := range got.Rows {
			if key, ok := got.Key(i); !ok || key != i {
				t.Errorf("n=%d: row %d key = %d, want %d", n, i, key, i)
			}
		}
	}
}

func TestAssignKeys_ReplacesExistingKey(t *testing.T) {
	in := New("people", []string{"name", KeyColumn},
		Record{"name": "Ann", KeyColumn: 40},
		Record{"name": "Bob", KeyColumn: 12},
	)

	got := AssignKeys(in)

	wantCols := []string{KeyColumn, "name"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", got.Columns, wantCols)
	}
	if want := []any{0, 1}; !reflect.DeepEqual(got.Column(KeyColumn), want) {
		t.Errorf("keys = %v, want %v", got.Column(KeyColumn), want)
	}
	if in.Rows[0][KeyColumn] != 40 {
		t.Errorf("input was mutated: key = %v", in.Rows[0][KeyColumn])
	}
}

func TestTable_KeyMissing(t *testing.T) {
	in := New("people", []string{KeyColumn, "name"},
		Record{KeyColumn: int64(3), "name": "Ann"},
		Record{"name": "Bob"},
	)

	for i := range in.Rows {
		if key, ok := in.Key(i); ok {
			t.Errorf("row %d: Key() = %d, true, want no key", i, key)
		}
	}
}

func TestAssignKeys_Idempotent(t *testing.T) {
	in := New("people", []string{"name"}, Record{"name": "Ann"}, Record{"name": "Bob"})

	once := AssignKeys(in)
	twice := AssignKeys(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("AssignKeys twice = %+v, want %+v", twice, once)
	}
}

func TestAssignKeys_AfterFilter(t *testing.T) {
	in := New("skills", []string{"skill"},
		Record{"skill": "Go"},
		Record{"skill": nil},
		Record{"skill": "SQL"},
	)

	got := AssignKeys(in.DropNull("skill"))

	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	if key, _ := got.Key(1); got.Rows[1]["skill"] != "SQL" || key != 1 {
		t.Errorf("row 1 = %v, want skill=SQL id=1", got.Rows[1])
	}
}

// ----------------------------------------------------------------------------
// Column operation Tests
// ----------------------------------------------------------------------------

func TestTable_Drop(t *testing.T) {
	in := New("t", []string{"a", "b", "c"}, Record{"a": 1, "b": 2, "c": 3})

	got := in.Drop("b", "missing")

	if !reflect.DeepEqual(got.Columns, []string{"a", "c"}) {
		t.Errorf("Columns = %v", got.Columns)
	}
	if _, ok := got.Rows[0]["b"]; ok {
		t.Error("dropped value still present in row")
	}
	if !in.Has("b") {
		t.Error("input columns were mutated")
	}
}

func TestTable_Append(t *testing.T) {
	in := New("t", []string{"a"}, Record{"a": 1}, Record{"a": 2})

	got, err := in.Append("fk", []any{5, nil})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if got.Columns[len(got.Columns)-1] != "fk" {
		t.Errorf("Columns = %v, want fk last", got.Columns)
	}
	if got.Rows[0]["fk"] != 5 || got.Rows[1]["fk"] != nil {
		t.Errorf("fk values = %v, %v", got.Rows[0]["fk"], got.Rows[1]["fk"])
	}

	if _, err := in.Append("fk", []any{1}); err == nil {
		t.Error("Append() with wrong length: expected error")
	}
}

func TestTable_Project(t *testing.T) {
	in := New("t", []string{"a", "b"}, Record{"a": 1, "b": 2})

	got, err := in.Project("b")
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if !reflect.DeepEqual(got.Rows[0], Record{"b": 2}) {
		t.Errorf("row = %v", got.Rows[0])
	}

	if _, err := in.Project("zzz"); err == nil {
		t.Error("Project() unknown column: expected error")
	}
}

func TestTable_Distinct(t *testing.T) {
	in := New("pairs", []string{"name", "skill"},
		Record{"name": "Ann", "skill": "Go"},
		Record{"name": "Ann", "skill": "SQL"},
		Record{"name": "Bob", "skill": "Go"},
		Record{"name": "Bob", "skill": nil},
	)

	got, err := in.Distinct("skill", "skill")
	if err != nil {
		t.Fatalf("Distinct() error = %v", err)
	}
	want := []any{"Go", "SQL"}
	if !reflect.DeepEqual(got.Column("skill"), want) {
		t.Errorf("Distinct() = %v, want %v", got.Column("skill"), want)
	}

	bad := New("pairs", []string{"skill"}, Record{"skill": []int{1, 2, 3}})
	if _, err := bad.Distinct("skill", "skill"); err == nil {
		t.Error("Distinct() on date values: expected error")
	}
}
