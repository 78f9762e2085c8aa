// Package splitmethod builds the payment split method listing: the orderable
// table of configured methods, the "add" control listing plugin types, and the
// handlers behind both.
package splitmethod

import (
	"context"
	"fmt"
	"html"
	"sort"

	"github.com/mmynk/paysplit/internal/form"
	"github.com/mmynk/paysplit/internal/listing"
	"github.com/mmynk/paysplit/internal/models"
	"github.com/mmynk/paysplit/internal/natsort"
	"github.com/mmynk/paysplit/internal/plugin"
	"github.com/mmynk/paysplit/internal/storage"
)

const (
	// FormID identifies the listing form.
	FormID = "uc_payment_split_methods_form"
	// TypeField is the select holding the plugin type to add.
	TypeField = "payment_split_method_type"
)

// Method is the listed entity type.
type Method = *models.PaymentSplitMethod

// ListBuilder renders and processes the payment split method listing.
type ListBuilder struct {
	list     *listing.Draggable[Method]
	registry *plugin.Registry
	linker   listing.Linker
	t        listing.Translator
	docsURL  string
}

// NewListBuilder wires a listing over store, resolving plugins through registry.
func NewListBuilder(store storage.MethodStore, registry *plugin.Registry, linker listing.Linker, t listing.Translator, docsURL string) *ListBuilder {
	rows := &methodRows{registry: registry, t: t}
	routes := listing.Routes{
		Edit:    RouteEditForm,
		Enable:  RouteEnable,
		Disable: RouteDisable,
		Delete:  RouteDeleteForm,
		Param:   ParamID,
	}
	return &ListBuilder{
		list:     listing.NewDraggable[Method](methodStorage{store: store}, rows, linker, routes, t),
		registry: registry,
		linker:   linker,
		t:        t,
		docsURL:  docsURL,
	}
}

// FormID returns the listing form ID.
func (b *ListBuilder) FormID() string {
	return FormID
}

// BuildHeader returns the table columns.
func (b *ListBuilder) BuildHeader() []form.Column {
	return b.list.BuildHeader()
}

// BuildRow returns the table row of m.
func (b *ListBuilder) BuildRow(m Method) (form.Row, error) {
	return b.list.BuildRow(m, listing.Delta(0))
}

// GetDefaultOperations returns the operations offered on m.
func (b *ListBuilder) GetDefaultOperations(m Method) (listing.Operations, error) {
	return b.list.Operations(m)
}

// AddOptions returns the plugin types administrators may add, in natural
// case-insensitive order of their names.
func (b *ListBuilder) AddOptions() []form.Option {
	var options []form.Option
	for id, def := range b.registry.Definitions() {
		if def.NoUI {
			continue
		}
		options = append(options, form.Option{Value: id, Label: def.Name})
	}
	sort.SliceStable(options, func(i, j int) bool {
		if c := natsort.Compare(options[i].Label, options[j].Label); c != 0 {
			return c < 0
		}
		return options[i].Value < options[j].Value
	})
	return options
}

// BuildForm populates f with the add control, the method table and the save action.
func (b *ListBuilder) BuildForm(ctx context.Context, f *form.Form, st *form.State) error {
	if options := b.AddOptions(); len(options) > 0 {
		f.Add(&form.Details{
			Name:    "add",
			Title:   b.t.T("Add payment split method"),
			Open:    true,
			Classes: []string{"container-inline"},
			Children: []form.Element{
				&form.Select{
					Name:        TypeField,
					Title:       b.t.T("Type"),
					EmptyOption: b.t.T("- Choose -"),
					Options:     options,
				},
				&form.Button{
					Name:                  "add_submit",
					Value:                 b.t.T("Add payment method"),
					Validate:              []form.Handler{b.ValidateAddPaymentSplitMethod},
					Submit:                []form.Handler{b.SubmitAddPaymentSplitMethod},
					LimitValidationErrors: []string{TypeField},
				},
			},
		})
	}

	if err := b.list.BuildForm(ctx, f, st); err != nil {
		return err
	}
	if table, ok := f.Get(b.list.EntitiesKey).(*form.Table); ok {
		table.Empty = b.t.T("No payment methods have been configured.")
	}

	f.Add(&form.Actions{Buttons: []*form.Button{{
		Name:    "submit",
		Value:   b.t.T("Save configuration"),
		Primary: true,
	}}})
	f.Validate = []form.Handler{b.list.ValidateWeights}
	f.Submit = []form.Handler{b.SubmitForm}
	return nil
}

// SubmitForm persists the new order and confirms it to the user.
func (b *ListBuilder) SubmitForm(ctx context.Context, f *form.Form, st *form.State) error {
	if err := b.list.SubmitForm(ctx, f, st); err != nil {
		return err
	}
	st.AddMessage(b.t.T("The configuration options have been saved."))
	return nil
}

// ValidateAddPaymentSplitMethod requires a plugin type to be chosen.
func (b *ListBuilder) ValidateAddPaymentSplitMethod(ctx context.Context, f *form.Form, st *form.State) error {
	if st.IsValueEmpty(TypeField) {
		st.SetErrorByName(TypeField, b.t.T("You must select the new payment method type."))
		return nil
	}
	if sel, ok := findSelect(f, TypeField); ok && !sel.HasOption(st.Value(TypeField)) {
		st.SetErrorByName(TypeField, b.t.T("An illegal choice has been detected."))
	}
	return nil
}

// SubmitAddPaymentSplitMethod sends the user to the add form of the chosen plugin.
func (b *ListBuilder) SubmitAddPaymentSplitMethod(ctx context.Context, f *form.Form, st *form.State) error {
	st.SetRedirect(RouteAddForm, map[string]string{ParamPluginID: st.Value(TypeField)})
	return nil
}

// Build returns the listing form for st.
func (b *ListBuilder) Build(ctx context.Context, st *form.State) (*form.Form, error) {
	f := form.New(FormID)
	if err := b.BuildForm(ctx, f, st); err != nil {
		return nil, err
	}
	return f, nil
}

// Render returns the listing page: an explanatory description, then the form.
func (b *ListBuilder) Render(ctx context.Context, st *form.State) (*form.Form, error) {
	pluginsURL, err := b.linker.URL(RoutePlugins, nil)
	if err != nil {
		return nil, err
	}

	f := form.New(FormID)
	f.Add(&form.Markup{
		Name: "description",
		HTML: "<p>" + b.t.T(
			`By default, only the "No payment required" payment method is listed here. To see additional payment methods you must <a href="%s">register additional plugins</a>. The built-in plugins provide "Check", "COD", "Equal split" and "Itemized split" methods. For more information about payment methods and settings please read the <a href="%s">documentation</a>.`,
			html.EscapeString(pluginsURL), html.EscapeString(b.docsURL),
		) + "</p><p>" + b.t.T(
			"The order of methods shown below is the order those methods will appear on the checkout page. To re-order, drag the method to its desired location using the drag icon then save the configuration using the button at the bottom of the page.",
		) + "</p>",
	})
	if err := b.BuildForm(ctx, f, st); err != nil {
		return nil, err
	}
	return f, nil
}

func findSelect(f *form.Form, name string) (*form.Select, bool) {
	for _, e := range f.Elements {
		d, ok := e.(*form.Details)
		if !ok {
			continue
		}
		for _, c := range d.Children {
			if s, ok := c.(*form.Select); ok && s.Name == name {
				return s, true
			}
		}
	}
	return nil, false
}

// methodRows renders the payment split method columns.
type methodRows struct {
	registry *plugin.Registry
	t        listing.Translator
}

func (r *methodRows) Header() []form.Column {
	return []form.Column{
		{Key: "label", Label: r.t.T("Payment method")},
		{Key: "plugin", Label: r.t.T("Type"), Classes: []string{"priority-low"}},
		{Key: "status", Label: r.t.T("Status")},
	}
}

func (r *methodRows) Row(m Method) ([]form.Cell, error) {
	def, err := r.registry.Definition(m.PluginID)
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", m.ID, err)
	}
	status := r.t.T("Disabled")
	if m.Status {
		status = r.t.T("Enabled")
	}
	return []form.Cell{
		{Key: "label", Text: m.Label},
		{Key: "plugin", Text: def.Name},
		{Key: "status", Text: status},
	}, nil
}

// Operations drops delete for locked methods.
func (r *methodRows) Operations(m Method, ops listing.Operations) listing.Operations {
	if ops.Has("delete") && m.Locked {
		return ops.Without("delete")
	}
	return ops
}

// methodStorage adapts storage.MethodStore to listing.Storage.
type methodStorage struct {
	store storage.MethodStore
}

func (s methodStorage) LoadAll(ctx context.Context) ([]Method, error) {
	return s.store.ListMethods(ctx)
}

func (s methodStorage) SaveWeights(ctx context.Context, weights map[string]int) error {
	return s.store.SaveWeights(ctx, weights)
}
