package listing

import (
	"sort"

	"github.com/mmynk/paysplit/internal/form"
)

// Operation is an action offered on a listed entity.
type Operation struct {
	Name   string
	Title  string
	URL    string
	Method string
	Weight int
}

// Operations is an ordered set of operations keyed by name.
type Operations []Operation

// Has reports whether an operation named name is present.
func (o Operations) Has(name string) bool {
	for _, op := range o {
		if op.Name == name {
			return true
		}
	}
	return false
}

// Without returns o minus the operation named name.
func (o Operations) Without(name string) Operations {
	out := make(Operations, 0, len(o))
	for _, op := range o {
		if op.Name != name {
			out = append(out, op)
		}
	}
	return out
}

// Names returns operation names in order.
func (o Operations) Names() []string {
	names := make([]string, len(o))
	for i, op := range o {
		names[i] = op.Name
	}
	return names
}

// Sort orders operations by weight.
func (o Operations) Sort() {
	sort.SliceStable(o, func(i, j int) bool { return o[i].Weight < o[j].Weight })
}

// Links converts the operations to form links.
func (o Operations) Links() []form.Link {
	links := make([]form.Link, len(o))
	for i, op := range o {
		links[i] = form.Link{Name: op.Name, Title: op.Title, URL: op.URL, Method: op.Method}
	}
	return links
}
