package schema

import "fmt"

const keyColumn = "id"

func key() Column { return Column{Name: keyColumn, Type: FieldInt} }

func ref(table string) Column { return Column{Name: table + "_id", Type: FieldInt} }

func fk(table string) ForeignKey { return ForeignKey{Column: table + "_id", References: table} }

func dimension(attr string) Output {
	return Output{
		Name:    attr,
		Columns: []Column{key(), {Name: attr, Type: FieldText}},
	}
}

func junction(attr string, extra ...Column) Output {
	return Output{
		Name:        attr + "_junction",
		Columns:     append([]Column{ref("student_information"), ref(attr)}, extra...),
		Junction:    true,
		ForeignKeys: []ForeignKey{fk("student_information"), fk(attr)},
	}
}

// cohortOutputs lists the normalized tables in load order.
func cohortOutputs() []Output {
	return []Output{
		{
			Name: "student_information",
			Columns: []Column{
				key(),
				{Name: "student_name", Type: FieldText},
				{Name: "gender", Type: FieldText},
				{Name: "dob", Type: FieldDate},
				{Name: "email", Type: FieldText},
				{Name: "city", Type: FieldText},
				{Name: "address", Type: FieldText},
				{Name: "postcode", Type: FieldText},
				{Name: "phone_number", Type: FieldText},
				{Name: "uni", Type: FieldText},
				{Name: "degree", Type: FieldText},
				ref("invitation"),
			},
			ForeignKeys: []ForeignKey{fk("invitation")},
		},
		{
			Name: "invitation",
			Columns: []Column{
				key(),
				{Name: "invited_date", Type: FieldDate},
				{Name: "invited_by", Type: FieldText},
			},
		},
		{
			Name: "test_score",
			Columns: []Column{
				key(),
				{Name: "psychometrics", Type: FieldText},
				{Name: "presentation", Type: FieldText},
				ref("student_information"),
			},
			ForeignKeys: []ForeignKey{fk("student_information")},
		},
		{
			Name: "academy_performance",
			Columns: []Column{
				key(),
				{Name: "week", Type: FieldText},
				{Name: "analytic", Type: FieldInt},
				{Name: "independent", Type: FieldInt},
				{Name: "determined", Type: FieldInt},
				{Name: "professional", Type: FieldInt},
				{Name: "studious", Type: FieldInt},
				{Name: "imaginative", Type: FieldInt},
				ref("student_information"),
				ref("course"),
			},
			ForeignKeys: []ForeignKey{fk("student_information"), fk("course")},
		},
		{
			Name: "trainee_performance",
			Columns: []Column{
				key(),
				{Name: "self_development", Type: FieldBool},
				{Name: "geo_flex", Type: FieldBool},
				{Name: "financial_support", Type: FieldBool},
				{Name: "result", Type: FieldBool},
				{Name: "course_interest", Type: FieldText},
				ref("student_information"),
			},
			ForeignKeys: []ForeignKey{fk("student_information")},
		},
		dimension("tech_self_score"),
		dimension("weakness"),
		dimension("strength"),
		junction("tech_self_score", Column{Name: "value", Type: FieldInt}),
		junction("weakness"),
		junction("strength"),
		{
			Name: "course",
			Columns: []Column{
				key(),
				{Name: "course_name", Type: FieldText},
				ref("trainer"),
			},
			ForeignKeys: []ForeignKey{fk("trainer")},
		},
		{
			Name: "trainer",
			Columns: []Column{
				key(),
				{Name: "trainer_name", Type: FieldText},
			},
		},
	}
}

// Default returns the catalog of the student cohort schema.
// Panics if the built-in descriptors are inconsistent.
func Default() *Catalog {
	c := NewCatalog()
	inputs := []Input{
		StudentInformationInput,
		InvitationInput,
		TestScoreInput,
		TraineePerformanceInput,
		TechSelfScorePairsInput,
		WeaknessPairsInput,
		StrengthPairsInput,
		AcademyPerformanceInput,
		CourseInput,
		TrainerInput,
	}
	for _, in := range inputs {
		if err := c.RegisterInput(in); err != nil {
			panic(err)
		}
	}
	for _, out := range cohortOutputs() {
		if err := c.RegisterOutput(out); err != nil {
			panic(err)
		}
	}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("cohort schema: %v", err))
	}
	return c
}
