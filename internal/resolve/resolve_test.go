package resolve

import (
	"errors"
	"reflect"
	"testing"

	"github.com/JonMunkholm/cohort/internal/table"
)

var nameDate = ByNameAndDate("name", "date")

func people(name string, rows ...table.Record) *table.Table {
	return table.New(name, []string{"name", "date"}, rows...)
}

func person(name string, d, m, y int) table.Record {
	return table.Record{"name": name, "date": []int{d, m, y}}
}

func TestResolve_OneToOneRightSide(t *testing.T) {
	left := people("students", person("Ann", 1, 6, 2020))
	right := people("invitations", person("Ann", 9, 6, 2020))

	gotLeft, gotRight, err := Resolve(left, right, Link{
		Identity:    nameDate,
		Cardinality: OneToOne,
		FKColumn:    "student_id",
		FKSide:      SideRight,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if key, _ := gotLeft.Key(0); gotRight.Rows[0]["student_id"] != key {
		t.Errorf("student_id = %v, want %d", gotRight.Rows[0]["student_id"], key)
	}
	if gotLeft.Has("student_id") {
		t.Error("foreign key written to both sides")
	}
}

func TestResolve_OneToOneDefaultsToLeft(t *testing.T) {
	left := people("students", person("Ann", 1, 6, 2020), person("Bob", 1, 6, 2020))
	right := people("invitations", person("Bob", 3, 6, 2020), person("Ann", 3, 6, 2020))

	gotLeft, gotRight, err := Resolve(left, right, Link{
		Identity:    nameDate,
		Cardinality: OneToOne,
		FKColumn:    "invitation_id",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []any{1, 0}
	if got := gotLeft.Column("invitation_id"); !reflect.DeepEqual(got, want) {
		t.Errorf("invitation_id = %v, want %v", got, want)
	}
	if gotRight.Has("invitation_id") {
		t.Error("right side gained the foreign key")
	}
}

func TestResolve_Orphan(t *testing.T) {
	left := people("students", person("Ann", 1, 6, 2020))
	right := people("scores", person("Bob", 1, 6, 2020))

	_, gotRight, err := Resolve(left, right, Link{
		Identity:    nameDate,
		Cardinality: ZeroOrOneToOne,
		FKColumn:    "student_id",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v, ok := gotRight.Rows[0]["student_id"]; !ok || v != nil {
		t.Errorf("student_id = %v (present=%v), want null", v, ok)
	}
}

func TestResolve_ManySideAlwaysHoldsKey(t *testing.T) {
	courses := table.New("course", []string{"course_name", "trainer_name"},
		table.Record{"course_name": "Data 1", "trainer_name": "Gregor"},
		table.Record{"course_name": "Eng 2", "trainer_name": "Ann"},
		table.Record{"course_name": "Data 3", "trainer_name": "Gregor"},
	)
	trainers := table.New("trainer", []string{"trainer_name"},
		table.Record{"trainer_name": "Ann"},
		table.Record{"trainer_name": "Gregor"},
	)

	gotTrainers, gotCourses, err := Resolve(trainers, courses, Link{
		Identity:    ByName("trainer_name"),
		Cardinality: OneToMany,
		FKColumn:    "trainer_id",
		FKSide:      SideLeft, // ignored for one-to-many
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []any{1, 0, 1}
	if got := gotCourses.Column("trainer_id"); !reflect.DeepEqual(got, want) {
		t.Errorf("trainer_id = %v, want %v", got, want)
	}
	if gotTrainers.Has("trainer_id") {
		t.Error("one side gained the foreign key")
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	left := people("students", person("Ann", 1, 6, 2020), person("ann", 2, 6, 2020))
	right := people("scores", person("Ann", 5, 6, 2020))

	link := Link{Identity: nameDate, Cardinality: ZeroOrOneToOne, FKColumn: "student_id"}
	for run := 0; run < 5; run++ {
		_, gotRight, err := Resolve(left, right, link)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if gotRight.Rows[0]["student_id"] != 0 {
			t.Fatalf("run %d: student_id = %v, want 0", run, gotRight.Rows[0]["student_id"])
		}
	}
}

func TestResolve_ReassignsKeys(t *testing.T) {
	left := table.New("students", []string{table.KeyColumn, "name", "date"},
		table.Record{table.KeyColumn: 17, "name": "Ann", "date": []int{1, 6, 2020}},
	)
	right := people("scores", person("Ann", 1, 6, 2020))

	gotLeft, gotRight, err := Resolve(left, right, Link{Identity: nameDate, Cardinality: ZeroOrOneToOne, FKColumn: "student_id"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if key, _ := gotLeft.Key(0); key != 0 || gotRight.Rows[0]["student_id"] != 0 {
		t.Errorf("key = %d, fk = %v, want 0, 0", key, gotRight.Rows[0]["student_id"])
	}
}

func TestResolve_NoHelperColumns(t *testing.T) {
	left := people("students", person("Ann", 1, 6, 2020))
	right := people("scores", person("Ann", 1, 6, 2020))

	gotLeft, gotRight, err := Resolve(left, right, Link{Identity: nameDate, Cardinality: ZeroOrOneToOne, FKColumn: "student_id"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := []string{table.KeyColumn, "name", "date"}; !reflect.DeepEqual(gotLeft.Columns, want) {
		t.Errorf("left columns = %v, want %v", gotLeft.Columns, want)
	}
	if want := []string{table.KeyColumn, "name", "date", "student_id"}; !reflect.DeepEqual(gotRight.Columns, want) {
		t.Errorf("right columns = %v, want %v", gotRight.Columns, want)
	}
	if len(gotRight.Rows[0]) != len(gotRight.Columns) {
		t.Errorf("row has %d values for %d columns", len(gotRight.Rows[0]), len(gotRight.Columns))
	}
}

func TestResolve_Errors(t *testing.T) {
	good := people("students", person("Ann", 1, 6, 2020))
	noDate := table.New("scores", []string{"name"}, table.Record{"name": "Ann"})
	badDate := people("scores", table.Record{"name": "Ann", "date": []int{6, 2020}})

	tests := []struct {
		name    string
		right   *table.Table
		link    Link
		wantErr error
	}{
		{
			name:    "missing identity column",
			right:   noDate,
			link:    Link{Identity: nameDate, Cardinality: OneToMany, FKColumn: "fk"},
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "short date",
			right:   badDate,
			link:    Link{Identity: nameDate, Cardinality: OneToMany, FKColumn: "fk"},
			wantErr: ErrInvalidIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Resolve(good, tt.right, tt.link)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var mismatch *SchemaMismatchError
	_, _, err := Resolve(good, noDate, Link{Identity: nameDate, Cardinality: OneToMany, FKColumn: "fk"})
	if !errors.As(err, &mismatch) || mismatch.Table != "scores" || mismatch.Column != "date" {
		t.Errorf("error = %v, want schema mismatch on scores.date", err)
	}
}

func TestResolve_InvalidLink(t *testing.T) {
	l := people("a", person("Ann", 1, 6, 2020))

	links := []Link{
		{Identity: nameDate, Cardinality: "many-to-many", FKColumn: "fk"},
		{Identity: nameDate, Cardinality: OneToOne, FKColumn: ""},
		{Identity: nameDate, Cardinality: OneToOne, FKColumn: table.KeyColumn},
		{Identity: nameDate, Cardinality: OneToOne, FKColumn: "fk", FKSide: "middle"},
		{Identity: nameDate, Cardinality: OneToMany, FKColumn: "date"},
		{Identity: nameDate, Cardinality: OneToMany, FKColumn: "name"},
	}
	for _, link := range links {
		if _, _, err := Resolve(l, l, link); err == nil {
			t.Errorf("Resolve(%+v) expected error", link)
		}
	}
}

func TestParseCardinality(t *testing.T) {
	for _, s := range []string{"1-to-1", "0-or-1-to-1", "1-to-many", "0-or-1-to-many"} {
		if _, err := ParseCardinality(s); err != nil {
			t.Errorf("ParseCardinality(%q) error = %v", s, err)
		}
	}
	if _, err := ParseCardinality("many-to-many"); err == nil {
		t.Error("ParseCardinality(many-to-many) expected error")
	}
}
