// Package listing implements an orderable entity listing: a table of entities
// with a weight column for drag-and-drop ordering, per-row operations, and
// persistence of the new order on submit.
//
// Entity-specific columns come from a RowBuilder; Draggable supplies the
// weight and operations columns and the ordering logic around them.
package listing

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/mmynk/paysplit/internal/form"
)

// DefaultEntitiesKey is the form key of the entity table.
const DefaultEntitiesKey = "entities"

// Entity is anything that can be listed and ordered.
type Entity interface {
	EntityID() string
	EntityLabel() string
	EntityWeight() int
}

// Toggleable entities get enable/disable operations.
type Toggleable interface {
	Enabled() bool
}

// Storage loads and reorders entities.
type Storage[E Entity] interface {
	LoadAll(ctx context.Context) ([]E, error)
	SaveWeights(ctx context.Context, weights map[string]int) error
}

// RowBuilder supplies the entity-specific parts of the listing.
type RowBuilder[E Entity] interface {
	// Header returns the entity columns, shown before weight and operations.
	Header() []form.Column
	// Row returns the entity cells, one per Header column.
	Row(e E) ([]form.Cell, error)
	// Operations may remove or add operations computed by the listing.
	Operations(e E, ops Operations) Operations
}

// Linker builds operation URLs for an entity.
type Linker interface {
	URL(route string, params map[string]string) (string, error)
}

// Routes names the route of each default operation. Empty names are skipped.
type Routes struct {
	Edit    string
	Enable  string
	Disable string
	Delete  string
	// Param is the route parameter carrying the entity ID.
	Param string
}

// Translator localizes UI strings.
type Translator interface {
	T(msg string, args ...any) string
}

// Draggable is an orderable listing of E.
type Draggable[E Entity] struct {
	storage     Storage[E]
	rows        RowBuilder[E]
	linker      Linker
	routes      Routes
	t           Translator
	EntitiesKey string
}

// NewDraggable builds a listing over storage using rows for entity columns.
func NewDraggable[E Entity](storage Storage[E], rows RowBuilder[E], linker Linker, routes Routes, t Translator) *Draggable[E] {
	return &Draggable[E]{
		storage:     storage,
		rows:        rows,
		linker:      linker,
		routes:      routes,
		t:           t,
		EntitiesKey: DefaultEntitiesKey,
	}
}

// Load returns every entity sorted by weight, then label.
func (d *Draggable[E]) Load(ctx context.Context) ([]E, error) {
	entities, err := d.storage.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entities: %w", err)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].EntityWeight() != entities[j].EntityWeight() {
			return entities[i].EntityWeight() < entities[j].EntityWeight()
		}
		return entities[i].EntityLabel() < entities[j].EntityLabel()
	})
	return entities, nil
}

// BuildHeader returns the entity columns followed by weight and operations.
func (d *Draggable[E]) BuildHeader() []form.Column {
	header := append([]form.Column(nil), d.rows.Header()...)
	return append(header,
		form.Column{Key: "weight", Label: d.t.T("Weight"), Classes: []string{"tabledrag-hide"}},
		form.Column{Key: "operations", Label: d.t.T("Operations")},
	)
}

// BuildRow returns the entity cells followed by the weight select and operations.
func (d *Draggable[E]) BuildRow(e E, delta int) (form.Row, error) {
	cells, err := d.rows.Row(e)
	if err != nil {
		return form.Row{}, err
	}
	ops, err := d.Operations(e)
	if err != nil {
		return form.Row{}, err
	}

	cells = append(cells,
		form.Cell{
			Key:           "weight",
			WeightName:    WeightField(d.EntitiesKey, e.EntityID()),
			Weight:        e.EntityWeight(),
			WeightOptions: weightRange(delta, e.EntityWeight()),
		},
		form.Cell{Key: "operations", Links: ops.Links()},
	)
	return form.Row{ID: e.EntityID(), Cells: cells}, nil
}

// DefaultOperations returns edit, enable or disable, and delete for e.
func (d *Draggable[E]) DefaultOperations(e E) (Operations, error) {
	params := map[string]string{d.routes.Param: e.EntityID()}
	var ops Operations

	add := func(name, title, route, method string, weight int) error {
		if route == "" {
			return nil
		}
		u, err := d.linker.URL(route, params)
		if err != nil {
			return fmt.Errorf("operation %s: %w", name, err)
		}
		ops = append(ops, Operation{Name: name, Title: title, URL: u, Method: method, Weight: weight})
		return nil
	}

	if err := add("edit", d.t.T("Edit"), d.routes.Edit, "GET", 10); err != nil {
		return nil, err
	}
	if tg, ok := any(e).(Toggleable); ok {
		if tg.Enabled() {
			if err := add("disable", d.t.T("Disable"), d.routes.Disable, "POST", 40); err != nil {
				return nil, err
			}
		} else {
			if err := add("enable", d.t.T("Enable"), d.routes.Enable, "POST", -10); err != nil {
				return nil, err
			}
		}
	}
	if err := add("delete", d.t.T("Delete"), d.routes.Delete, "GET", 100); err != nil {
		return nil, err
	}
	return ops, nil
}

// Operations returns the default operations filtered by the row builder, sorted by weight.
func (d *Draggable[E]) Operations(e E) (Operations, error) {
	ops, err := d.DefaultOperations(e)
	if err != nil {
		return nil, err
	}
	ops = d.rows.Operations(e, ops)
	ops.Sort()
	return ops, nil
}

// BuildTable loads the entities and returns the draggable table.
func (d *Draggable[E]) BuildTable(ctx context.Context) (*form.Table, error) {
	entities, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}

	delta := Delta(len(entities))
	table := &form.Table{
		Name:      d.EntitiesKey,
		Columns:   d.BuildHeader(),
		Draggable: true,
	}
	for _, e := range entities {
		row, err := d.BuildRow(e, delta)
		if err != nil {
			return nil, fmt.Errorf("build row %s: %w", e.EntityID(), err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// BuildForm appends the entity table to f.
func (d *Draggable[E]) BuildForm(ctx context.Context, f *form.Form, st *form.State) error {
	table, err := d.BuildTable(ctx)
	if err != nil {
		return err
	}
	f.Add(table)
	return nil
}

// SubmitForm persists the submitted weights that differ from the stored ones.
func (d *Draggable[E]) SubmitForm(ctx context.Context, f *form.Form, st *form.State) error {
	entities, err := d.Load(ctx)
	if err != nil {
		return err
	}

	changed := make(map[string]int)
	for _, e := range entities {
		raw := st.Value(WeightField(d.EntitiesKey, e.EntityID()))
		if raw == "" {
			continue
		}
		w, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("weight of %s: %w", e.EntityID(), err)
		}
		if w != e.EntityWeight() {
			changed[e.EntityID()] = w
		}
	}

	if err := d.storage.SaveWeights(ctx, changed); err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	return nil
}

// ValidateWeights flags weights that are not integers or fall outside the
// range offered for the entity.
func (d *Draggable[E]) ValidateWeights(ctx context.Context, f *form.Form, st *form.State) error {
	entities, err := d.Load(ctx)
	if err != nil {
		return err
	}
	current := make(map[string]int, len(entities))
	for _, e := range entities {
		current[e.EntityID()] = e.EntityWeight()
	}
	delta := Delta(len(entities))

	for name := range st.Values {
		id, ok := ParseWeightField(d.EntitiesKey, name)
		if !ok {
			continue
		}
		w, err := strconv.Atoi(st.Value(name))
		if err != nil {
			st.SetErrorByName(name, d.t.T("Weight for %s must be an integer.", id))
			continue
		}
		stored, ok := current[id]
		if !ok {
			continue
		}
		if lo, hi := weightBounds(delta, stored); w < lo || w > hi {
			st.SetErrorByName(name, d.t.T("An illegal choice has been detected."))
		}
	}
	return nil
}

// WeightField is the form field name of an entity's weight.
func WeightField(entitiesKey, id string) string {
	return entitiesKey + "[" + id + "][weight]"
}

// ParseWeightField extracts the entity ID from a weight field name.
func ParseWeightField(entitiesKey, name string) (string, bool) {
	prefix := entitiesKey + "["
	const suffix = "][weight]"
	if len(name) <= len(prefix)+len(suffix) || name[:len(prefix)] != prefix || name[len(name)-len(suffix):] != suffix {
		return "", false
	}
	return name[len(prefix) : len(name)-len(suffix)], true
}

// Delta is the weight range offered for n entities: at least 10, or half
// the count rounded up so every entity can take a distinct weight.
func Delta(n int) int {
	if d := (n + 1) / 2; d > 10 {
		return d
	}
	return 10
}

func weightBounds(delta, current int) (lo, hi int) {
	return min(-delta, current), max(delta, current)
}

func weightRange(delta, current int) []int {
	lo, hi := weightBounds(delta, current)
	out := make([]int, 0, hi-lo+1)
	for w := lo; w <= hi; w++ {
		out = append(out, w)
	}
	return out
}
