package machinedef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Definition describes a set of string-keyed machines and the order in which
// they are subscribed to bus events.
type Definition struct {
	Machines      []Machine      `yaml:"machines"`
	Subscriptions []Subscription `yaml:"subscriptions"`
}

// Machine is the data form of a statemachine.Table.
type Machine struct {
	Name        string              `yaml:"name"`
	Initial     string              `yaml:"initial"`
	States      []string            `yaml:"states,omitempty"`
	Transitions []Transition        `yaml:"transitions"`
	Actions     map[string][]Action `yaml:"actions,omitempty"`
}

type Transition struct {
	From  string `yaml:"from"`
	Event string `yaml:"event"`
	To    string `yaml:"to"`
}

// Action is a single entry action. Exactly one field is set: Publish raises
// an event on the bus, Call invokes a named function supplied to Build.
type Action struct {
	Publish string `yaml:"publish,omitempty"`
	Call    string `yaml:"call,omitempty"`
}

// Subscription subscribes machines to an event. Entries are applied in file
// order, which fixes delivery order for events with several subscribers.
type Subscription struct {
	Event    string   `yaml:"event"`
	Machines []string `yaml:"machines"`
}

// Parse decodes and validates a YAML definition. Unknown keys are rejected.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDefinition
		}
		return nil, errors.Join(ErrParsingDefinition, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// ParseFile is Parse for a file on disk.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadingDefinition, err)
	}
	return Parse(data)
}

// Marshal encodes the definition back to YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Machine returns the machine definition with the given name.
func (d *Definition) Machine(name string) (Machine, bool) {
	i := slices.IndexFunc(d.Machines, func(m Machine) bool { return m.Name == name })
	if i < 0 {
		return Machine{}, false
	}
	return d.Machines[i], true
}

// Validate reports every problem in the definition at once. The returned
// error matches ErrInvalidDefinition and wraps one *FieldError per problem.
func (d *Definition) Validate() error {
	var errs []error

	if len(d.Machines) == 0 {
		errs = append(errs, NewFieldError("machines", "at least one machine is required"))
	}

	names := make(map[string]struct{}, len(d.Machines))
	for i, m := range d.Machines {
		path := fmt.Sprintf("machines[%d]", i)
		if m.Name == "" {
			errs = append(errs, NewFieldError(path+".name", "is required"))
		} else {
			if _, dup := names[m.Name]; dup {
				errs = append(errs, NewFieldError(path+".name", "duplicate machine %q", m.Name))
			}
			names[m.Name] = struct{}{}
			path = fmt.Sprintf("machines[%s]", m.Name)
		}
		errs = append(errs, m.validate(path)...)
	}

	for i, s := range d.Subscriptions {
		path := fmt.Sprintf("subscriptions[%d]", i)
		if s.Event == "" {
			errs = append(errs, NewFieldError(path+".event", "is required"))
		}
		if len(s.Machines) == 0 {
			errs = append(errs, NewFieldError(path+".machines", "at least one machine is required"))
		}
		for _, name := range s.Machines {
			if _, ok := names[name]; !ok {
				errs = append(errs, NewFieldError(path+".machines", "unknown machine %q", name))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidDefinition}, errs...)...)
}

func (m Machine) validate(path string) []error {
	var errs []error

	if m.Initial == "" {
		errs = append(errs, NewFieldError(path+".initial", "is required"))
	}

	// Without a declared state set any name goes.
	known := func(string) bool { return true }
	if m.States != nil {
		if len(m.States) == 0 {
			errs = append(errs, NewFieldError(path+".states", "must not be empty when present"))
		}
		known = func(s string) bool { return slices.Contains(m.States, s) }
		if m.Initial != "" && !known(m.Initial) {
			errs = append(errs, NewFieldError(path+".initial", "state %q is not declared", m.Initial))
		}
	}

	for i, tr := range m.Transitions {
		tp := fmt.Sprintf("%s.transitions[%d]", path, i)
		switch {
		case tr.From == "" || tr.Event == "" || tr.To == "":
			errs = append(errs, NewFieldError(tp, "from, event and to are required"))
		case !known(tr.From):
			errs = append(errs, NewFieldError(tp+".from", "state %q is not declared", tr.From))
		case !known(tr.To):
			errs = append(errs, NewFieldError(tp+".to", "state %q is not declared", tr.To))
		}
	}

	for state, actions := range m.Actions {
		ap := fmt.Sprintf("%s.actions[%s]", path, state)
		if !known(state) {
			errs = append(errs, NewFieldError(ap, "state %q is not declared", state))
		}
		for i, a := range actions {
			if (a.Publish == "") == (a.Call == "") {
				errs = append(errs, NewFieldError(fmt.Sprintf("%s[%d]", ap, i), "exactly one of publish or call is required"))
			}
		}
	}

	return errs
}
