package splitmethod

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/mmynk/paysplit/internal/form"
	"github.com/mmynk/paysplit/internal/i18n"
	"github.com/mmynk/paysplit/internal/models"
	"github.com/mmynk/paysplit/internal/plugin"
	"github.com/mmynk/paysplit/internal/storage"
)

type memStore struct {
	methods map[string]*models.PaymentSplitMethod
	saves   int
	listErr error
}

func newMemStore(methods ...*models.PaymentSplitMethod) *memStore {
	s := &memStore{methods: map[string]*models.PaymentSplitMethod{}}
	for _, m := range methods {
		s.methods[m.ID] = m
	}
	return s
}

func (s *memStore) ListMethods(ctx context.Context) ([]*models.PaymentSplitMethod, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*models.PaymentSplitMethod, 0, len(s.methods))
	for _, m := range s.methods {
		c := *m
		out = append(out, &c)
	}
	models.SortMethods(out)
	return out, nil
}

func (s *memStore) GetMethod(ctx context.Context, id string) (*models.PaymentSplitMethod, error) {
	m, ok := s.methods[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (s *memStore) CreateMethod(ctx context.Context, m *models.PaymentSplitMethod) error {
	s.methods[m.ID] = m
	return nil
}

func (s *memStore) UpdateMethod(ctx context.Context, m *models.PaymentSplitMethod) error {
	s.methods[m.ID] = m
	return nil
}

func (s *memStore) DeleteMethod(ctx context.Context, id string) error {
	delete(s.methods, id)
	return nil
}

func (s *memStore) SaveWeights(ctx context.Context, weights map[string]int) error {
	s.saves++
	for id, w := range weights {
		s.methods[id].Weight = w
	}
	return nil
}

type testLinker struct{}

func (testLinker) URL(route string, params map[string]string) (string, error) {
	u := "/" + route
	if id, ok := params[ParamID]; ok {
		u += "/" + id
	}
	return u, nil
}

func newTestBuilder(t *testing.T, registry *plugin.Registry, methods ...*models.PaymentSplitMethod) (*ListBuilder, *memStore) {
	t.Helper()
	if registry == nil {
		registry = plugin.NewRegistry()
		if err := plugin.RegisterBuiltins(registry); err != nil {
			t.Fatalf("RegisterBuiltins failed: %v", err)
		}
	}
	store := newMemStore(methods...)
	return NewListBuilder(store, registry, testLinker{}, i18n.MustNew("en"), "https://example.com/docs"), store
}

func defaultMethods() []*models.PaymentSplitMethod {
	return []*models.PaymentSplitMethod{
		{ID: "free_order", Label: "No payment required", PluginID: "free_order", Status: true, Locked: true},
		{ID: "check", Label: "Check", PluginID: "check", Weight: 1, Status: false},
		{ID: "cod", Label: "Cash on delivery", PluginID: "cod", Weight: 2, Status: true},
	}
}

func TestBuildHeader(t *testing.T) {
	b, _ := newTestBuilder(t, nil)
	var keys, labels []string
	for _, c := range b.BuildHeader() {
		keys = append(keys, c.Key)
		labels = append(labels, c.Label)
	}
	if want := []string{"label", "plugin", "status", "weight", "operations"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if want := []string{"Payment method", "Type", "Status", "Weight", "Operations"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestBuildRow(t *testing.T) {
	b, _ := newTestBuilder(t, nil)

	tests := []struct {
		name       string
		method     *models.PaymentSplitMethod
		wantPlugin string
		wantStatus string
	}{
		{
			name:       "enabled",
			method:     &models.PaymentSplitMethod{ID: "cod", Label: "Cash", PluginID: "cod", Status: true},
			wantPlugin: "COD",
			wantStatus: "Enabled",
		},
		{
			name:       "disabled",
			method:     &models.PaymentSplitMethod{ID: "check", Label: "Cheque", PluginID: "check"},
			wantPlugin: "Check",
			wantStatus: "Disabled",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := b.BuildRow(tt.method)
			if err != nil {
				t.Fatalf("BuildRow failed: %v", err)
			}
			cells := map[string]form.Cell{}
			for _, c := range row.Cells {
				cells[c.Key] = c
			}
			if cells["label"].Text != tt.method.Label {
				t.Errorf("label = %q", cells["label"].Text)
			}
			if cells["plugin"].Text != tt.wantPlugin {
				t.Errorf("plugin = %q, want %q", cells["plugin"].Text, tt.wantPlugin)
			}
			if cells["status"].Text != tt.wantStatus {
				t.Errorf("status = %q, want %q", cells["status"].Text, tt.wantStatus)
			}
		})
	}

	t.Run("unknown plugin", func(t *testing.T) {
		_, err := b.BuildRow(&models.PaymentSplitMethod{ID: "x", PluginID: "bitcoin"})
		if !errors.Is(err, plugin.ErrUnknownPlugin) {
			t.Errorf("error = %v, want ErrUnknownPlugin", err)
		}
	})
}

func TestGetDefaultOperations(t *testing.T) {
	b, _ := newTestBuilder(t, nil)

	for _, locked := range []bool{true, false} {
		t.Run(fmt.Sprintf("locked=%v", locked), func(t *testing.T) {
			m := &models.PaymentSplitMethod{ID: "m", Label: "M", PluginID: "check", Status: true, Locked: locked}
			ops, err := b.GetDefaultOperations(m)
			if err != nil {
				t.Fatalf("GetDefaultOperations failed: %v", err)
			}
			if ops.Has("delete") == locked {
				t.Errorf("delete present = %v for locked = %v", ops.Has("delete"), locked)
			}
			if !ops.Has("edit") {
				t.Error("expected edit operation")
			}
		})
	}
}

func TestAddOptions(t *testing.T) {
	registry := plugin.NewRegistry()
	for _, def := range []plugin.Definition{
		{ID: "z", Name: "Zebra"},
		{ID: "a", Name: "apple"},
		{ID: "b", Name: "Banana"},
		{ID: "hidden", Name: "Aardvark", NoUI: true},
	} {
		if err := registry.Register(plugin.Static(def)); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}
	b, _ := newTestBuilder(t, registry)

	var labels []string
	for _, o := range b.AddOptions() {
		labels = append(labels, o.Label)
	}
	if want := []string{"apple", "Banana", "Zebra"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("options = %v, want %v", labels, want)
	}
}

func TestBuildForm(t *testing.T) {
	ctx := context.Background()

	t.Run("add control, table, actions", func(t *testing.T) {
		b, _ := newTestBuilder(t, nil, defaultMethods()...)
		f, err := b.Build(ctx, form.NewState(nil))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		var keys []string
		for _, e := range f.Elements {
			keys = append(keys, e.Key())
		}
		if want := []string{"add", "entities", "actions"}; !reflect.DeepEqual(keys, want) {
			t.Fatalf("elements = %v, want %v", keys, want)
		}

		add := f.Get("add").(*form.Details)
		sel := add.Children[0].(*form.Select)
		for _, o := range sel.Options {
			if o.Value == "free_order" {
				t.Error("hidden plugin offered in add options")
			}
		}
		if sel.EmptyOption != "- Choose -" {
			t.Errorf("empty option = %q", sel.EmptyOption)
		}

		table := f.Get("entities").(*form.Table)
		var ids []string
		for _, r := range table.Rows {
			ids = append(ids, r.ID)
		}
		if want := []string{"free_order", "check", "cod"}; !reflect.DeepEqual(ids, want) {
			t.Errorf("rows = %v, want %v", ids, want)
		}
		if table.Empty != "No payment methods have been configured." {
			t.Errorf("empty text = %q", table.Empty)
		}
	})

	t.Run("no visible plugins omits add control", func(t *testing.T) {
		registry := plugin.NewRegistry()
		if err := registry.Register(plugin.Static(plugin.Definition{ID: "free_order", Name: "Free", NoUI: true})); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		b, _ := newTestBuilder(t, registry)
		f, err := b.Build(ctx, form.NewState(nil))
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if f.Get("add") != nil {
			t.Error("expected no add control")
		}
		if table := f.Get("entities").(*form.Table); len(table.Rows) != 0 {
			t.Errorf("rows = %d, want 0", len(table.Rows))
		}
	})
}

func process(t *testing.T, b *ListBuilder, values url.Values) (*form.State, bool) {
	t.Helper()
	st := form.NewState(values)
	f, err := b.Build(context.Background(), st)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	submitted, err := form.Process(context.Background(), f, st)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	return st, submitted
}

func TestAddPaymentSplitMethod(t *testing.T) {
	b, _ := newTestBuilder(t, nil, defaultMethods()...)

	t.Run("no type selected", func(t *testing.T) {
		st, submitted := process(t, b, url.Values{form.OpKey: {"Add payment method"}})
		if submitted {
			t.Error("expected validation to block submission")
		}
		if st.Error(TypeField) != "You must select the new payment method type." {
			t.Errorf("error = %q", st.Error(TypeField))
		}
		if st.Redirect() != nil {
			t.Error("expected no redirect")
		}
	})

	t.Run("check selected", func(t *testing.T) {
		st, submitted := process(t, b, url.Values{
			form.OpKey: {"Add payment method"},
			TypeField:  {"check"},
			// Weight errors are not reported for the add button.
			"entities[cod][weight]": {"heavy"},
		})
		if !submitted {
			t.Fatalf("expected submission, errors = %v", st.Errors())
		}
		r := st.Redirect()
		if r == nil || r.Route != RouteAddForm || r.Params[ParamPluginID] != "check" {
			t.Errorf("redirect = %+v", r)
		}
	})

	t.Run("hidden type rejected", func(t *testing.T) {
		st, submitted := process(t, b, url.Values{form.OpKey: {"Add payment method"}, TypeField: {"free_order"}})
		if submitted || st.Error(TypeField) == "" {
			t.Error("expected hidden plugin to be rejected")
		}
	})
}

func TestSubmitFormSavesOrder(t *testing.T) {
	b, store := newTestBuilder(t, nil, defaultMethods()...)

	st, submitted := process(t, b, url.Values{
		form.OpKey:                     {"Save configuration"},
		"entities[free_order][weight]": {"3"},
		"entities[check][weight]":      {"-1"},
		"entities[cod][weight]":        {"2"},
	})
	if !submitted {
		t.Fatalf("expected submission, errors = %v", st.Errors())
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	msgs := st.Messages()
	if len(msgs) != 1 || msgs[0] != "The configuration options have been saved." {
		t.Errorf("messages = %v", msgs)
	}

	methods, _ := store.ListMethods(context.Background())
	var ids []string
	for _, m := range methods {
		ids = append(ids, m.ID)
	}
	if want := []string{"check", "cod", "free_order"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestRender(t *testing.T) {
	b, _ := newTestBuilder(t, nil, defaultMethods()...)
	f, err := b.Render(context.Background(), form.NewState(nil))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	desc, ok := f.Elements[0].(*form.Markup)
	if !ok {
		t.Fatalf("first element = %T, want *form.Markup", f.Elements[0])
	}
	for _, want := range []string{`href="/plugin.list"`, `href="https://example.com/docs"`, "order of methods shown below"} {
		if !strings.Contains(desc.HTML, want) {
			t.Errorf("description missing %q", want)
		}
	}
	if f.Get("entities") == nil {
		t.Error("expected the method table after the description")
	}
}
