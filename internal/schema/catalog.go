package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Catalog holds the input and output table descriptors of one schema.
// Outputs keep their registration order, which is the load order.
type Catalog struct {
	inputs  map[string]Input
	outputs []Output
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{inputs: make(map[string]Input)}
}

// RegisterInput adds an input descriptor.
// Returns an error if an input with the same name is already registered.
func (c *Catalog) RegisterInput(in Input) error {
	if _, exists := c.inputs[in.Name]; exists {
		return fmt.Errorf("input already registered: %s", in.Name)
	}
	c.inputs[in.Name] = in
	return nil
}

// RegisterOutput appends an output descriptor.
// Foreign key targets are checked by Validate once the catalog is complete.
func (c *Catalog) RegisterOutput(out Output) error {
	if _, exists := c.Output(out.Name); exists {
		return fmt.Errorf("output already registered: %s", out.Name)
	}
	for _, fk := range out.ForeignKeys {
		if !slices.Contains(out.ColumnNames(), fk.Column) {
			return fmt.Errorf("output %s: foreign key column %q is not a column", out.Name, fk.Column)
		}
	}
	c.outputs = append(c.outputs, out)
	return nil
}

// Input returns an input descriptor by name.
func (c *Catalog) Input(name string) (Input, bool) {
	in, ok := c.inputs[name]
	return in, ok
}

// Inputs returns all input descriptors sorted by name.
func (c *Catalog) Inputs() []Input {
	result := make([]Input, 0, len(c.inputs))
	for _, in := range c.inputs {
		result = append(result, in)
	}
	slices.SortFunc(result, func(a, b Input) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result
}

// Output returns an output descriptor by name.
func (c *Catalog) Output(name string) (Output, bool) {
	for _, out := range c.outputs {
		if out.Name == name {
			return out, true
		}
	}
	return Output{}, false
}

// Outputs returns the output descriptors in load order.
func (c *Catalog) Outputs() []Output {
	return slices.Clone(c.outputs)
}

// Validate checks that every foreign key references a registered,
// non-junction output.
func (c *Catalog) Validate() error {
	for _, out := range c.outputs {
		for _, fk := range out.ForeignKeys {
			target, ok := c.Output(fk.References)
			if !ok {
				return fmt.Errorf("output %s: foreign key %s references unknown table %s", out.Name, fk.Column, fk.References)
			}
			if target.Junction {
				return fmt.Errorf("output %s: foreign key %s references junction table %s", out.Name, fk.Column, fk.References)
			}
		}
	}
	return nil
}
