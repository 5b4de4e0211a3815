// Package pipeline runs the relationship steps that turn the flat input
// tables into the normalized cohort schema.
//
// A [Plan] is an ordered list of steps. Each step reads tables by name from a
// working set seeded with the inputs and writes its results back under their
// own names, so later steps see the keys and foreign keys added by earlier
// ones. Steps run strictly in order.
package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/JonMunkholm/cohort/internal/resolve"
)

// StepKind selects the resolver a step uses.
type StepKind string

const (
	KindLink     StepKind = "link"
	KindJunction StepKind = "junction"
)

// ErrInvalidPlan reports a plan that cannot run against its inputs.
var ErrInvalidPlan = errors.New("invalid plan")

// PlanError names the step that makes a plan invalid.
type PlanError struct {
	Step   string
	Reason string
}

func (e *PlanError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("invalid plan: %s", e.Reason)
	}
	return fmt.Sprintf("invalid plan: step %s: %s", e.Step, e.Reason)
}

func (e *PlanError) Unwrap() error { return ErrInvalidPlan }

// Step is one relationship to resolve.
//
// For a link step Left and Right are the two related tables. For a junction
// step Left is the base table and Right the pairs table; the step adds the
// junction and attribute tables named by Junction.Names.
type Step struct {
	Name     string
	Kind     StepKind
	Left     string
	Right    string
	Link     resolve.Link
	Junction resolve.Junction
}

// Outputs returns the names of the tables the step writes.
func (s Step) Outputs() []string {
	if s.Kind == KindJunction {
		junction, dimension := s.Junction.Names()
		return []string{s.Left, junction, dimension}
	}
	return []string{s.Left, s.Right}
}

// Plan is an ordered list of steps.
type Plan struct {
	Steps []Step
}

// Validate checks that every step is well formed and only reads tables that
// are available when it runs: the given inputs or the outputs of an earlier
// step.
func (p *Plan) Validate(available []string) error {
	if p == nil || len(p.Steps) == 0 {
		return &PlanError{Reason: "no steps"}
	}

	known := make(map[string]bool, len(available))
	for _, name := range available {
		known[name] = true
	}
	seen := make(map[string]bool, len(p.Steps))

	for _, s := range p.Steps {
		if s.Name == "" {
			return &PlanError{Reason: "step without a name"}
		}
		if seen[s.Name] {
			return &PlanError{Step: s.Name, Reason: "duplicate step name"}
		}
		seen[s.Name] = true

		if s.Left == "" || s.Right == "" || s.Left == s.Right {
			return &PlanError{Step: s.Name, Reason: fmt.Sprintf("invalid tables %q, %q", s.Left, s.Right)}
		}
		for _, name := range []string{s.Left, s.Right} {
			if !known[name] {
				return &PlanError{Step: s.Name, Reason: fmt.Sprintf("table %s is not available", name)}
			}
		}

		var err error
		switch s.Kind {
		case KindLink:
			err = s.Link.Validate()
		case KindJunction:
			err = s.Junction.Validate()
			if junction, dimension := s.Junction.Names(); err == nil && junction == dimension {
				err = fmt.Errorf("junction and attribute tables share the name %s", junction)
			}
		default:
			err = fmt.Errorf("unknown kind %q", s.Kind)
		}
		if err != nil {
			return &PlanError{Step: s.Name, Reason: err.Error()}
		}

		for _, name := range s.Outputs() {
			known[name] = true
		}
	}
	return nil
}

// Tables returns every table name the plan reads or writes, in first-use
// order.
func (p *Plan) Tables() []string {
	var names []string
	for _, s := range p.Steps {
		for _, name := range append([]string{s.Left, s.Right}, s.Outputs()...) {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

func studentLink(right string, id resolve.Identity) Step {
	return Step{
		Name:  right,
		Kind:  KindLink,
		Left:  "student_information",
		Right: right,
		Link: resolve.Link{
			Identity:    id,
			Cardinality: resolve.ZeroOrOneToOne,
			FKColumn:    "student_information_id",
			FKSide:      resolve.SideRight,
		},
	}
}

func studentJunction(attr string, carry ...string) Step {
	return Step{
		Name:  attr,
		Kind:  KindJunction,
		Left:  "student_information",
		Right: attr + "_pairs",
		Junction: resolve.Junction{
			Identity:    resolve.ByNameAndDate("student_name", "date"),
			Attribute:   attr,
			LeftColumn:  "student_information_id",
			RightColumn: attr + "_id",
			Carry:       carry,
		},
	}
}

// DefaultPlan returns the steps that build the cohort schema.
//
// Academy rows are matched to applicants by name only: the academy sheets
// carry the course start date, not the application date.
func DefaultPlan() *Plan {
	byNameAndDate := resolve.ByNameAndDate("student_name", "date")

	return &Plan{Steps: []Step{
		{
			Name:  "invitation",
			Kind:  KindLink,
			Left:  "student_information",
			Right: "invitation",
			Link: resolve.Link{
				Identity:    byNameAndDate,
				Cardinality: resolve.OneToOne,
				FKColumn:    "invitation_id",
				FKSide:      resolve.SideLeft,
			},
		},
		studentLink("test_score", byNameAndDate),
		studentLink("academy_performance", resolve.ByName("student_name")),
		studentLink("trainee_performance", byNameAndDate),
		studentJunction("tech_self_score", "value"),
		studentJunction("weakness"),
		studentJunction("strength"),
		{
			Name:  "course",
			Kind:  KindLink,
			Left:  "course",
			Right: "academy_performance",
			Link: resolve.Link{
				Identity:    resolve.ByNameAndDate("course_name", "date"),
				Cardinality: resolve.OneToMany,
				FKColumn:    "course_id",
				FKSide:      resolve.SideRight,
			},
		},
		{
			Name:  "trainer",
			Kind:  KindLink,
			Left:  "trainer",
			Right: "course",
			Link: resolve.Link{
				Identity:    resolve.ByName("trainer_name"),
				Cardinality: resolve.OneToMany,
				FKColumn:    "trainer_id",
				FKSide:      resolve.SideRight,
			},
		},
	}}
}
