package splitmethod

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/mmynk/paysplit/internal/form"
	"github.com/mmynk/paysplit/internal/listing"
	"github.com/mmynk/paysplit/internal/models"
	"github.com/mmynk/paysplit/internal/plugin"
	"github.com/mmynk/paysplit/internal/storage"
)

// Form IDs of the entity forms.
const (
	AddFormID    = "uc_payment_split_method_add_form"
	EditFormID   = "uc_payment_split_method_edit_form"
	DeleteFormID = "uc_payment_split_method_delete_form"
)

// ErrLocked is returned when deleting a locked method.
var ErrLocked = storage.ErrLocked

// Editor builds and processes the add, edit and delete forms of a method.
type Editor struct {
	store    storage.MethodStore
	registry *plugin.Registry
	t        listing.Translator
}

// NewEditor returns an Editor over store.
func NewEditor(store storage.MethodStore, registry *plugin.Registry, t listing.Translator) *Editor {
	return &Editor{store: store, registry: registry, t: t}
}

// SettingField is the form field name of a plugin setting.
func SettingField(key string) string {
	return "settings[" + key + "]"
}

// AddForm returns the form creating a method backed by pluginID.
func (e *Editor) AddForm(pluginID string) (*form.Form, error) {
	def, err := e.registry.Definition(pluginID)
	if err != nil {
		return nil, err
	}
	if def.NoUI {
		return nil, fmt.Errorf("%w: %s is not available", plugin.ErrUnknownPlugin, pluginID)
	}

	m := &models.PaymentSplitMethod{PluginID: pluginID, Status: true, Label: def.Name}
	f := form.New(AddFormID)
	f.Add(
		&form.TextField{Name: "label", Title: e.t.T("Label"), Value: m.Label, Required: true},
		&form.TextField{
			Name:        "id",
			Title:       e.t.T("Machine name"),
			Description: e.t.T("Lowercase letters, digits and underscores. Leave empty to derive it from the label."),
		},
	)
	e.addCommon(f, def, m)

	f.Validate = []form.Handler{e.validateMethod(def, true)}
	f.Submit = []form.Handler{func(ctx context.Context, f *form.Form, st *form.State) error {
		id := st.Value("id")
		if id == "" {
			id = models.MachineName(st.Value("label"))
		}
		weight, err := e.nextWeight(ctx)
		if err != nil {
			return err
		}
		created := &models.PaymentSplitMethod{
			ID:       id,
			Label:    st.Value("label"),
			Status:   st.Values.Has("status"),
			PluginID: pluginID,
			Weight:   weight,
			Settings: settingsFrom(def, st),
		}
		if err := e.store.CreateMethod(ctx, created); err != nil {
			if errors.Is(err, storage.ErrExists) {
				st.SetErrorByName("id", e.t.T("The machine name %s is already in use.", id))
				return nil
			}
			return err
		}
		st.AddMessage(e.t.T("Created the %s payment method.", created.Label))
		st.SetRedirect(RouteCollection, nil)
		return nil
	}}
	return f, nil
}

// EditForm returns the form editing m.
func (e *Editor) EditForm(m *models.PaymentSplitMethod) (*form.Form, error) {
	def, err := e.registry.Definition(m.PluginID)
	if err != nil {
		return nil, err
	}

	f := form.New(EditFormID)
	f.Add(
		&form.TextField{Name: "label", Title: e.t.T("Label"), Value: m.Label, Required: true},
		&form.TextField{Name: "id", Title: e.t.T("Machine name"), Value: m.ID, Disabled: true},
	)
	e.addCommon(f, def, m)

	f.Validate = []form.Handler{e.validateMethod(def, false)}
	f.Submit = []form.Handler{func(ctx context.Context, f *form.Form, st *form.State) error {
		m.Label = st.Value("label")
		m.Status = st.Values.Has("status")
		m.Settings = settingsFrom(def, st)
		if err := e.store.UpdateMethod(ctx, m); err != nil {
			return err
		}
		st.AddMessage(e.t.T("Saved the %s payment method.", m.Label))
		st.SetRedirect(RouteCollection, nil)
		return nil
	}}
	return f, nil
}

// DeleteForm returns the confirmation form deleting m.
func (e *Editor) DeleteForm(m *models.PaymentSplitMethod) (*form.Form, error) {
	if m.Locked {
		return nil, fmt.Errorf("method %s: %w", m.ID, ErrLocked)
	}
	f := form.New(DeleteFormID)
	f.Add(
		&form.Markup{Name: "question", HTML: "<p>" + e.t.T("Are you sure you want to delete the payment method %s? This action cannot be undone.", html.EscapeString(m.Label)) + "</p>"},
		&form.Actions{Buttons: []*form.Button{{Name: "submit", Value: e.t.T("Delete"), Primary: true}}},
	)
	f.Submit = []form.Handler{func(ctx context.Context, f *form.Form, st *form.State) error {
		if err := e.store.DeleteMethod(ctx, m.ID); err != nil {
			return err
		}
		st.AddMessage(e.t.T("The payment method %s has been deleted.", m.Label))
		st.SetRedirect(RouteCollection, nil)
		return nil
	}}
	return f, nil
}

// SetStatus enables or disables the method id.
func (e *Editor) SetStatus(ctx context.Context, id string, enabled bool) (*models.PaymentSplitMethod, error) {
	m, err := e.store.GetMethod(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == enabled {
		return m, nil
	}
	m.Status = enabled
	if err := e.store.UpdateMethod(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (e *Editor) addCommon(f *form.Form, def plugin.Definition, m *models.PaymentSplitMethod) {
	f.Add(&form.Checkbox{Name: "status", Title: e.t.T("Enabled"), Checked: m.Status})

	if len(def.Settings) > 0 {
		settings := &form.Details{Name: "settings", Title: e.t.T("%s settings", def.Name), Open: true}
		for _, s := range def.Settings {
			value, ok := m.Settings[s.Key]
			if !ok {
				value = s.Default
			}
			settings.Children = append(settings.Children, &form.TextField{
				Name:     SettingField(s.Key),
				Title:    s.Label,
				Value:    value,
				Required: s.Required,
			})
		}
		f.Add(settings)
	}

	f.Add(&form.Actions{Buttons: []*form.Button{{Name: "submit", Value: e.t.T("Save"), Primary: true}}})
}

func (e *Editor) validateMethod(def plugin.Definition, adding bool) form.Handler {
	return func(ctx context.Context, f *form.Form, st *form.State) error {
		if st.IsValueEmpty("label") {
			st.SetErrorByName("label", e.t.T("Label field is required."))
		}
		if adding {
			id := st.Value("id")
			if id == "" {
				id = models.MachineName(st.Value("label"))
			}
			switch {
			case id == "" && !st.IsValueEmpty("label"):
				st.SetErrorByName("id", e.t.T("Machine name is required."))
			case id != "" && !models.ValidMachineName(id):
				st.SetErrorByName("id", e.t.T("The machine name must contain only lowercase letters, numbers, and underscores."))
			}
		}
		for _, s := range def.Settings {
			if s.Required && st.IsValueEmpty(SettingField(s.Key)) {
				st.SetErrorByName(SettingField(s.Key), e.t.T("%s field is required.", s.Label))
			}
		}
		return nil
	}
}

// nextWeight places new methods after existing ones.
func (e *Editor) nextWeight(ctx context.Context) (int, error) {
	methods, err := e.store.ListMethods(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list methods: %w", err)
	}
	if len(methods) == 0 {
		return 0, nil
	}
	return methods[len(methods)-1].Weight + 1, nil
}

func settingsFrom(def plugin.Definition, st *form.State) map[string]string {
	settings := make(map[string]string, len(def.Settings))
	for _, s := range def.Settings {
		settings[s.Key] = st.Value(SettingField(s.Key))
	}
	return settings
}
