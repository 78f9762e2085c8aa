// Package form is a small server-side form engine: a form is built as a tree
// of elements, submitted values are collected into a request-scoped State, and
// Process runs the validate and submit handlers of the button that was pressed.
package form

import (
	"context"
)

// OpKey is the submitted value naming the pressed button.
const OpKey = "op"

// Handler is a validate or submit step. Returned errors abort processing and
// are not user-facing; user-facing problems go through State.SetErrorByName.
type Handler func(ctx context.Context, f *Form, st *State) error

// Element is anything that can be placed in a form.
type Element interface {
	Key() string
}

// Form is an ordered set of elements plus default handlers.
type Form struct {
	ID       string
	Elements []Element

	// Validate and Submit run when the pressed button has no handlers of its own.
	Validate []Handler
	Submit   []Handler
}

// New returns an empty form with the given ID.
func New(id string) *Form {
	return &Form{ID: id}
}

// Add appends elements in order.
func (f *Form) Add(elems ...Element) {
	f.Elements = append(f.Elements, elems...)
}

// Get returns the top-level element with the given key.
func (f *Form) Get(key string) Element {
	for _, e := range f.Elements {
		if e.Key() == key {
			return e
		}
	}
	return nil
}

// Buttons returns every button in the form, including nested ones.
func (f *Form) Buttons() []*Button {
	var out []*Button
	var walk func([]Element)
	walk = func(elems []Element) {
		for _, e := range elems {
			switch v := e.(type) {
			case *Button:
				out = append(out, v)
			case *Details:
				walk(v.Children)
			case *Actions:
				out = append(out, v.Buttons...)
			}
		}
	}
	walk(f.Elements)
	return out
}

// Details is a collapsible fieldset.
type Details struct {
	Name     string
	Title    string
	Open     bool
	Classes  []string
	Children []Element
}

func (d *Details) Key() string { return d.Name }

// Option is one choice of a Select.
type Option struct {
	Value string
	Label string
}

// Select is a drop-down control.
type Select struct {
	Name        string
	Title       string
	EmptyOption string
	Options     []Option
	Required    bool
}

func (s *Select) Key() string { return s.Name }

// HasOption reports whether value is one of the select's options.
func (s *Select) HasOption(value string) bool {
	for _, o := range s.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// TextField is a single-line text input.
type TextField struct {
	Name        string
	Title       string
	Value       string
	Description string
	Required    bool
	Disabled    bool
}

func (t *TextField) Key() string { return t.Name }

// Checkbox is a boolean input.
type Checkbox struct {
	Name    string
	Title   string
	Checked bool
}

func (c *Checkbox) Key() string { return c.Name }

// Button is a submit button. Its value is submitted under OpKey.
type Button struct {
	Name     string
	Value    string
	Primary  bool
	Validate []Handler
	Submit   []Handler
	// LimitValidationErrors keeps only errors on these field names when set.
	LimitValidationErrors []string
}

func (b *Button) Key() string { return b.Name }

// Actions groups the form's main buttons.
type Actions struct {
	Buttons []*Button
}

func (a *Actions) Key() string { return "actions" }

// Markup is pre-rendered, trusted HTML.
type Markup struct {
	Name string
	HTML string
}

func (m *Markup) Key() string { return m.Name }
