package load

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestToPgDate(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    pgtype.Date
		wantErr bool
	}{
		{"null", nil, pgtype.Date{}, false},
		{"triple", []int{5, 10, 2022}, pgtype.Date{Time: time.Date(2022, time.October, 5, 0, 0, 0, 0, time.UTC), Valid: true}, false},
		{"leap day", []int{29, 2, 2020}, pgtype.Date{Time: time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC), Valid: true}, false},
		{"not a calendar date", []int{31, 2, 2021}, pgtype.Date{}, true},
		{"short", []int{5, 10}, pgtype.Date{}, true},
		{"string", "5/10/2022", pgtype.Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToPgDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToPgDate(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ToPgDate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToPgInt4(t *testing.T) {
	tests := []struct {
		in      any
		want    pgtype.Int4
		wantErr bool
	}{
		{nil, pgtype.Int4{}, false},
		{0, pgtype.Int4{Int32: 0, Valid: true}, false},
		{int64(42), pgtype.Int4{Int32: 42, Valid: true}, false},
		{3.0, pgtype.Int4{Int32: 3, Valid: true}, false},
		{3.5, pgtype.Int4{}, true},
		{int64(1) << 40, pgtype.Int4{}, true},
		{"7", pgtype.Int4{}, true},
	}

	for _, tt := range tests {
		got, err := ToPgInt4(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ToPgInt4(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ToPgInt4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToPgTextAndBool(t *testing.T) {
	if got, _ := ToPgText(nil); got.Valid {
		t.Error("ToPgText(nil) should be invalid")
	}
	if got, _ := ToPgText("Eli"); got != (pgtype.Text{String: "Eli", Valid: true}) {
		t.Errorf("ToPgText(Eli) = %v", got)
	}
	if _, err := ToPgText(12); err == nil {
		t.Error("ToPgText(12) expected error")
	}

	if got, _ := ToPgBool(true); got != (pgtype.Bool{Bool: true, Valid: true}) {
		t.Errorf("ToPgBool(true) = %v", got)
	}
	if got, _ := ToPgBool(nil); got.Valid {
		t.Error("ToPgBool(nil) should be invalid")
	}
	if _, err := ToPgBool("yes"); err == nil {
		t.Error("ToPgBool(yes) expected error")
	}
}
