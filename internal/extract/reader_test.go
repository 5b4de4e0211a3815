package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/cohort/internal/schema"
)

func TestReadTable_Course(t *testing.T) {
	data := "\xEF\xBB\xBFCourse Report\n\nCOURSE_NAME,Date,Trainer_Name,Room\nData 1,5/9/2020, Eli ,A\n,,,\nEng 2,=\"12-10-2020\",'Ana',B\n"

	got, err := ReadTable(strings.NewReader(data), schema.CourseInput, "course.csv")
	require.NoError(t, err)

	assert.Equal(t, "course", got.Name)
	assert.Equal(t, []string{"course_name", "date", "trainer_name"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []any{"Data 1", "Eng 2"}, got.Column("course_name"))
	assert.Equal(t, []any{[]int{5, 9, 2020}, []int{12, 10, 2020}}, got.Column("date"))
	assert.Equal(t, []any{"Eli", "Ana"}, got.Column("trainer_name"))
}

func TestReadTable_TypesAndNulls(t *testing.T) {
	data := "student_name,date,self_development,result,course_interest\n" +
		"Ann Lee,01/06/2020,Yes,false,\n" +
		"Bob Ray,3.6.2020,,1,Data\n"

	got, err := ReadTable(strings.NewReader(data), schema.TraineePerformanceInput, "trainee_performance.csv")
	require.NoError(t, err)

	require.Equal(t, 2, got.Len())
	assert.Equal(t, []any{true, nil}, got.Column("self_development"))
	assert.Equal(t, []any{false, true}, got.Column("result"))
	assert.Equal(t, []any{nil, "Data"}, got.Column("course_interest"))
	assert.Equal(t, []any{nil, nil}, got.Column("geo_flex"), "absent optional column reads as null")
}

func TestReadTable_MissingRequiredColumn(t *testing.T) {
	_, err := ReadTable(strings.NewReader("name\nEli\n"), schema.TrainerInput, "trainer.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns: trainer_name")
}

func TestReadTable_InvalidCell(t *testing.T) {
	data := "student_name,date,tech_self_score,value\nAnn,1/6/2020,Python,lots\n"

	_, err := ReadTable(strings.NewReader(data), schema.TechSelfScorePairsInput, "pairs.csv")

	var cellErr *CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 2, cellErr.Line)
	assert.Equal(t, "value", cellErr.Column)
	assert.Contains(t, err.Error(), "invalid value")
}

func TestReadTable_Empty(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), schema.TrainerInput, "trainer.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty file")
}

func TestReadTable_InvalidUTF8(t *testing.T) {
	data := "trainer_name\nEl\xffi\n"

	got, err := ReadTable(strings.NewReader(data), schema.TrainerInput, "trainer.csv")
	require.NoError(t, err)
	assert.Equal(t, []any{"El\uFFFDi"}, got.Column("trainer_name"))
}

func writeInputs(t *testing.T, dir string, skip string) {
	t.Helper()
	for _, in := range schema.Default().Inputs() {
		if in.Name == skip {
			continue
		}
		header := strings.Join(in.Columns(), ",")
		path := filepath.Join(dir, in.Name+".csv")
		require.NoError(t, os.WriteFile(path, []byte(header+"\n"), 0o644))
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trainer.csv"), []byte("trainer_name\nEli\nAna\n"), 0o644))

	tables, err := ReadDir(context.Background(), dir, schema.Default())
	require.NoError(t, err)

	assert.Len(t, tables, 10)
	assert.Equal(t, 2, tables["trainer"].Len())
	assert.Equal(t, 0, tables["weakness_pairs"].Len())
}

func TestReadDir_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, "invitation")

	_, err := ReadDir(context.Background(), dir, schema.Default())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file not found")
	assert.False(t, errors.Is(err, context.Canceled))
}
