package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/cohort/internal/resolve"
)

// planFile is the YAML form of a plan.
type planFile struct {
	Steps []stepFile `yaml:"steps"`
}

type stepFile struct {
	Name     string   `yaml:"name,omitempty"`
	Kind     StepKind `yaml:"kind"`
	Left     string   `yaml:"left"`
	Right    string   `yaml:"right"`
	Identity []string `yaml:"identity,flow"`

	// link
	Cardinality string `yaml:"cardinality,omitempty"`
	FKColumn    string `yaml:"fk_column,omitempty"`
	FKSide      string `yaml:"fk_side,omitempty"`

	// junction
	Attribute string   `yaml:"attribute,omitempty"`
	Columns   []string `yaml:"columns,omitempty,flow"`
	Carry     []string `yaml:"carry,omitempty,flow"`
	Junction  string   `yaml:"junction,omitempty"`
	Dimension string   `yaml:"dimension,omitempty"`
}

// LoadPlan reads and parses a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}

	return ParsePlan(data)
}

// ParsePlan parses a YAML plan. Unknown keys are rejected.
//
//	steps:
//	  - kind: link
//	    left: trainer
//	    right: course
//	    identity: [trainer_name]
//	    cardinality: 1-to-many
//	    fk_column: trainer_id
func ParsePlan(data []byte) (*Plan, error) {
	var pf planFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &PlanError{Reason: "empty document"}
		}
		return nil, &PlanError{Reason: fmt.Sprintf("failed to parse plan YAML: %v", err)}
	}

	plan := &Plan{Steps: make([]Step, 0, len(pf.Steps))}
	for i, sf := range pf.Steps {
		s, err := sf.step()
		if err != nil {
			return nil, &PlanError{Step: stepLabel(sf, i), Reason: err.Error()}
		}
		plan.Steps = append(plan.Steps, s)
	}
	return plan, nil
}

// MarshalPlan serializes a plan to YAML.
func MarshalPlan(p *Plan) ([]byte, error) {
	pf := planFile{Steps: make([]stepFile, 0, len(p.Steps))}
	for _, s := range p.Steps {
		pf.Steps = append(pf.Steps, newStepFile(s))
	}
	return yaml.Marshal(pf)
}

func stepLabel(sf stepFile, i int) string {
	if sf.Name != "" {
		return sf.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

func parseIdentity(cols []string) (resolve.Identity, error) {
	switch len(cols) {
	case 1:
		return resolve.ByName(cols[0]), nil
	case 2:
		return resolve.ByNameAndDate(cols[0], cols[1]), nil
	default:
		return resolve.Identity{}, fmt.Errorf("identity needs 1 or 2 columns, got %d", len(cols))
	}
}

func (sf stepFile) step() (Step, error) {
	id, err := parseIdentity(sf.Identity)
	if err != nil {
		return Step{}, err
	}

	s := Step{Name: sf.Name, Kind: sf.Kind, Left: sf.Left, Right: sf.Right}

	switch sf.Kind {
	case KindLink:
		card, err := resolve.ParseCardinality(sf.Cardinality)
		if err != nil {
			return Step{}, err
		}
		side := resolve.Side(sf.FKSide)
		if side == "" {
			side = resolve.SideRight
			if card == resolve.OneToOne {
				side = resolve.SideLeft
			}
		}
		s.Link = resolve.Link{
			Identity:    id,
			Cardinality: card,
			FKColumn:    sf.FKColumn,
			FKSide:      side,
		}
		if s.Name == "" {
			s.Name = sf.Right
		}
	case KindJunction:
		if len(sf.Columns) != 2 {
			return Step{}, fmt.Errorf("junction needs 2 key columns, got %d", len(sf.Columns))
		}
		s.Junction = resolve.Junction{
			Identity:    id,
			Attribute:   sf.Attribute,
			LeftColumn:  sf.Columns[0],
			RightColumn: sf.Columns[1],
			Carry:       sf.Carry,
			Name:        sf.Junction,
			Dimension:   sf.Dimension,
		}
		if s.Name == "" {
			s.Name = sf.Attribute
		}
	default:
		return Step{}, fmt.Errorf("unknown kind %q", sf.Kind)
	}
	return s, nil
}

func newStepFile(s Step) stepFile {
	sf := stepFile{Name: s.Name, Kind: s.Kind, Left: s.Left, Right: s.Right}

	switch s.Kind {
	case KindJunction:
		j := s.Junction
		sf.Identity = j.Identity.Columns()
		sf.Attribute = j.Attribute
		sf.Columns = []string{j.LeftColumn, j.RightColumn}
		sf.Carry = j.Carry
		sf.Junction = j.Name
		sf.Dimension = j.Dimension
	default:
		l := s.Link
		sf.Identity = l.Identity.Columns()
		sf.Cardinality = string(l.Cardinality)
		sf.FKColumn = l.FKColumn
		sf.FKSide = string(l.FKSide)
	}
	return sf
}
