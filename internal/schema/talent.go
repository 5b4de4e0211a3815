package schema

// Inputs extracted from the talent team's sources: the applicant CSVs, the
// interview JSON documents and the assessment-day text files.

func identityFields() []FieldSpec {
	return []FieldSpec{
		{Name: "student_name", Type: FieldText, Required: true},
		{Name: "date", Type: FieldDate, Required: true},
	}
}

// StudentInformationInput defines the applicant roster from the talent CSVs.
var StudentInformationInput = Input{
	Name: "student_information",
	Fields: append(identityFields(),
		FieldSpec{Name: "gender", Type: FieldText},
		FieldSpec{Name: "dob", Type: FieldDate},
		FieldSpec{Name: "email", Type: FieldText},
		FieldSpec{Name: "city", Type: FieldText},
		FieldSpec{Name: "address", Type: FieldText},
		FieldSpec{Name: "postcode", Type: FieldText},
		FieldSpec{Name: "phone_number", Type: FieldText},
		FieldSpec{Name: "uni", Type: FieldText},
		FieldSpec{Name: "degree", Type: FieldText},
	),
}

// InvitationInput defines who invited each applicant and when.
var InvitationInput = Input{
	Name: "invitation",
	Fields: append(identityFields(),
		FieldSpec{Name: "invited_date", Type: FieldDate},
		FieldSpec{Name: "invited_by", Type: FieldText},
	),
}

// TestScoreInput defines the assessment-day results from the text files.
var TestScoreInput = Input{
	Name: "test_score",
	Fields: append(identityFields(),
		FieldSpec{Name: "psychometrics", Type: FieldText},
		FieldSpec{Name: "presentation", Type: FieldText},
	),
}

// TraineePerformanceInput defines the interview outcome from the JSON documents.
var TraineePerformanceInput = Input{
	Name: "trainee_performance",
	Fields: append(identityFields(),
		FieldSpec{Name: "self_development", Type: FieldBool},
		FieldSpec{Name: "geo_flex", Type: FieldBool},
		FieldSpec{Name: "financial_support", Type: FieldBool},
		FieldSpec{Name: "result", Type: FieldBool},
		FieldSpec{Name: "course_interest", Type: FieldText},
	),
}

// TechSelfScorePairsInput holds one row per applicant and self-rated technology.
var TechSelfScorePairsInput = Input{
	Name: "tech_self_score_pairs",
	Fields: append(identityFields(),
		FieldSpec{Name: "tech_self_score", Type: FieldText, Required: true},
		FieldSpec{Name: "value", Type: FieldInt},
	),
}

// WeaknessPairsInput holds one row per applicant and declared weakness.
var WeaknessPairsInput = Input{
	Name: "weakness_pairs",
	Fields: append(identityFields(),
		FieldSpec{Name: "weakness", Type: FieldText, Required: true},
	),
}

// StrengthPairsInput holds one row per applicant and declared strength.
var StrengthPairsInput = Input{
	Name: "strength_pairs",
	Fields: append(identityFields(),
		FieldSpec{Name: "strength", Type: FieldText, Required: true},
	),
}
