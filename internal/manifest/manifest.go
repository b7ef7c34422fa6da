// Package manifest loads the checkbox groups served by the checkgroup CLI
// from a YAML file.
//
//	groups:
//	  - name: toppings
//	    label: Toppings
//	    required: true
//	    variant: label-hidden
//	    binding: back-reference
//	    aggregate: true
//	    choices:
//	      - {label: Cheese, value: cheese, checked: true}
//	      - {label: Olives, value: olives}
//
// Group attributes other than the ones listed on Group are read as
// checkgroup.Config fields with the truthiness rules of ConfigFromMap: any
// non-empty string is set, so "required: 'false'" still marks the group
// required, exactly as the attribute would in markup.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pthm/checkgroup"
	"gopkg.in/yaml.v3"
)

// Manifest is the parsed file.
type Manifest struct {
	Groups []Group `yaml:"groups"`
}

// Group is one served group.
type Group struct {
	Name           string              `yaml:"name"`
	Binding        string              `yaml:"binding"`
	Aggregate      bool                `yaml:"aggregate"`
	DeselectEvents *bool               `yaml:"deselect-events"`
	Sensitive      bool                `yaml:"sensitive"`
	Choices        []checkgroup.Choice `yaml:"choices"`
	Attrs          map[string]any      `yaml:",inline"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and validates a manifest.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: manifest is empty", checkgroup.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: %v", checkgroup.ErrInvalidConfig, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks names and choice values. All problems are reported
// together.
func (m *Manifest) Validate() error {
	var errs []error
	if len(m.Groups) == 0 {
		errs = append(errs, errors.New("no groups defined"))
	}

	names := make(map[string]bool, len(m.Groups))
	for i, g := range m.Groups {
		switch {
		case g.Name == "":
			errs = append(errs, fmt.Errorf("group %d: name is required", i))
		case names[g.Name]:
			errs = append(errs, fmt.Errorf("group %q: duplicate name", g.Name))
		}
		names[g.Name] = true

		if g.Binding != "" && g.Binding != checkgroup.BindReadOnly.String() && g.Binding != checkgroup.BindBackReference.String() {
			errs = append(errs, fmt.Errorf("group %q: unknown binding %q", g.Name, g.Binding))
		}

		values := make(map[string]bool, len(g.Choices))
		for j, c := range g.Choices {
			if c.Value == "" {
				errs = append(errs, fmt.Errorf("group %q: choice %d has no value", g.Name, j))
				continue
			}
			if values[c.Value] {
				errs = append(errs, fmt.Errorf("group %q: duplicate choice value %q", g.Name, c.Value))
			}
			values[c.Value] = true
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", checkgroup.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Definition converts g into a servable definition.
func (g Group) Definition() checkgroup.Definition {
	return checkgroup.Definition{
		Name:    g.Name,
		Config:  checkgroup.ConfigFromMap(g.Attrs),
		Choices: append([]checkgroup.Choice(nil), g.Choices...),
	}
}

// Options returns the group options g asks for, logging through logger.
func (g Group) Options(logger *slog.Logger) []checkgroup.Option {
	opts := []checkgroup.Option{
		checkgroup.WithBinding(checkgroup.ParseBindingPolicy(g.Binding)),
		checkgroup.WithAggregateValidity(g.Aggregate),
	}
	if g.DeselectEvents != nil {
		opts = append(opts, checkgroup.WithDeselectEvents(*g.DeselectEvents))
	}
	if logger != nil {
		opts = append(opts, checkgroup.WithLogger(logger.With("group", g.Name)))
	}
	return opts
}

// Components builds one component per group.
func (m *Manifest) Components(logger *slog.Logger) []*checkgroup.Component {
	comps := make([]*checkgroup.Component, 0, len(m.Groups))
	for _, g := range m.Groups {
		c := checkgroup.NewComponent(g.Definition(), g.Options(logger)...)
		if g.Sensitive {
			c.Sensitive()
		}
		comps = append(comps, c)
	}
	return comps
}
