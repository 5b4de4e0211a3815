package schema

// Inputs extracted from the academy's weekly course spreadsheets.

// AcademyPerformanceInput defines one row per trainee, course and week.
var AcademyPerformanceInput = Input{
	Name: "academy_performance",
	Fields: []FieldSpec{
		{Name: "student_name", Type: FieldText, Required: true},
		{Name: "date", Type: FieldDate, Required: true},
		{Name: "course_name", Type: FieldText, Required: true},
		{Name: "week", Type: FieldText},
		{Name: "analytic", Type: FieldInt},
		{Name: "independent", Type: FieldInt},
		{Name: "determined", Type: FieldInt},
		{Name: "professional", Type: FieldInt},
		{Name: "studious", Type: FieldInt},
		{Name: "imaginative", Type: FieldInt},
	},
}

// CourseInput defines one row per course run and its trainer.
var CourseInput = Input{
	Name: "course",
	Fields: []FieldSpec{
		{Name: "course_name", Type: FieldText, Required: true},
		{Name: "date", Type: FieldDate, Required: true},
		{Name: "trainer_name", Type: FieldText, Required: true},
	},
}

// TrainerInput defines the distinct trainers.
var TrainerInput = Input{
	Name: "trainer",
	Fields: []FieldSpec{
		{Name: "trainer_name", Type: FieldText, Required: true},
	},
}
