package form

import (
	"net/url"
	"strings"
)

// Redirect is a named route with parameters.
type Redirect struct {
	Route  string
	Params map[string]string
}

// State carries everything about one form submission through build,
// validate and submit. It lives for a single request.
type State struct {
	Values url.Values

	// Triggering is the button that submitted the form, nil on build.
	Triggering *Button

	errors   map[string]string
	order    []string
	redirect *Redirect
	messages []string
}

// NewState wraps submitted values. values may be nil for a plain GET.
func NewState(values url.Values) *State {
	if values == nil {
		values = url.Values{}
	}
	return &State{Values: values, errors: map[string]string{}}
}

// Submitted reports whether the state holds a submission.
func (s *State) Submitted() bool {
	return s.Values.Has(OpKey)
}

// Value returns the trimmed submitted value for name.
func (s *State) Value(name string) string {
	return strings.TrimSpace(s.Values.Get(name))
}

// IsValueEmpty reports whether name was submitted with a blank value.
func (s *State) IsValueEmpty(name string) bool {
	return s.Value(name) == ""
}

// SetErrorByName flags field name with a message. The first error wins.
func (s *State) SetErrorByName(name, message string) {
	if _, ok := s.errors[name]; ok {
		return
	}
	s.errors[name] = message
	s.order = append(s.order, name)
}

// Error returns the error on field name.
func (s *State) Error(name string) string {
	return s.errors[name]
}

// Errors returns field errors in the order they were set.
func (s *State) Errors() []FieldError {
	out := make([]FieldError, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, FieldError{Name: name, Message: s.errors[name]})
	}
	return out
}

// HasErrors reports whether any field error is set.
func (s *State) HasErrors() bool {
	return len(s.errors) > 0
}

// ClearErrors removes field errors except those named in keep.
func (s *State) ClearErrors(keep []string) {
	allowed := make(map[string]bool, len(keep))
	for _, k := range keep {
		allowed[k] = true
	}
	order := s.order[:0]
	for _, name := range s.order {
		if allowed[name] {
			order = append(order, name)
			continue
		}
		delete(s.errors, name)
	}
	s.order = order
}

// SetRedirect sends the user to route after submission.
func (s *State) SetRedirect(route string, params map[string]string) {
	s.redirect = &Redirect{Route: route, Params: params}
}

// Redirect returns the redirect set by a submit handler, or nil.
func (s *State) Redirect() *Redirect {
	return s.redirect
}

// AddMessage queues a one-time status message for the user.
func (s *State) AddMessage(msg string) {
	s.messages = append(s.messages, msg)
}

// Messages returns queued status messages.
func (s *State) Messages() []string {
	return s.messages
}

// FieldError is a validation error attached to a field.
type FieldError struct {
	Name    string
	Message string
}
