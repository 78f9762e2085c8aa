package splitmethod

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/mmynk/paysplit/internal/form"
	"github.com/mmynk/paysplit/internal/i18n"
	"github.com/mmynk/paysplit/internal/models"
	"github.com/mmynk/paysplit/internal/plugin"
)

func newTestEditor(t *testing.T, methods ...*models.PaymentSplitMethod) (*Editor, *memStore) {
	t.Helper()
	registry := plugin.NewRegistry()
	if err := plugin.RegisterBuiltins(registry); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}
	store := newMemStore(methods...)
	return NewEditor(store, registry, i18n.MustNew("en")), store
}

func submit(t *testing.T, f *form.Form, values url.Values) (*form.State, bool) {
	t.Helper()
	values.Set(form.OpKey, "Save")
	st := form.NewState(values)
	ok, err := form.Process(context.Background(), f, st)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	return st, ok
}

func TestAddForm(t *testing.T) {
	t.Run("creates the method after existing ones", func(t *testing.T) {
		e, store := newTestEditor(t, defaultMethods()...)
		f, err := e.AddForm("check")
		if err != nil {
			t.Fatalf("AddForm failed: %v", err)
		}
		st, _ := submit(t, f, url.Values{
			"label":                         {"Pay by Check"},
			"status":                        {"1"},
			SettingField("mailing_address"): {"1 Main St"},
		})
		if st.HasErrors() {
			t.Fatalf("errors = %v", st.Errors())
		}
		m, ok := store.methods["pay_by_check"]
		if !ok {
			t.Fatalf("method not created, have %v", store.methods)
		}
		if m.PluginID != "check" || !m.Status || m.Weight != 3 {
			t.Errorf("method = %+v", m)
		}
		if m.Settings["mailing_address"] != "1 Main St" {
			t.Errorf("settings = %v", m.Settings)
		}
		if r := st.Redirect(); r == nil || r.Route != RouteCollection {
			t.Errorf("redirect = %+v", r)
		}
	})

	t.Run("required setting", func(t *testing.T) {
		e, _ := newTestEditor(t)
		f, _ := e.AddForm("check")
		st, ok := submit(t, f, url.Values{"label": {"Check"}})
		if ok || st.Error(SettingField("mailing_address")) == "" {
			t.Errorf("expected required setting error, got %v", st.Errors())
		}
	})

	t.Run("invalid machine name", func(t *testing.T) {
		e, _ := newTestEditor(t)
		f, _ := e.AddForm("cod")
		st, ok := submit(t, f, url.Values{"label": {"COD"}, "id": {"Bad Name"}})
		if ok || st.Error("id") == "" {
			t.Errorf("expected id error, got %v", st.Errors())
		}
	})

	t.Run("label without latin characters needs a machine name", func(t *testing.T) {
		e, store := newTestEditor(t)
		f, _ := e.AddForm("cod")
		st, ok := submit(t, f, url.Values{"label": {"Оплата при доставке"}})
		if ok || st.Error("id") == "" {
			t.Errorf("expected id error, got %v", st.Errors())
		}
		if len(store.methods) != 0 {
			t.Errorf("methods = %v, want none", store.methods)
		}

		f, _ = e.AddForm("cod")
		st, ok = submit(t, f, url.Values{"label": {"Оплата при доставке"}, "id": {"cod_ru"}})
		if !ok {
			t.Fatalf("errors = %v", st.Errors())
		}
		if _, ok := store.methods["cod_ru"]; !ok {
			t.Errorf("method not created, have %v", store.methods)
		}
	})

	t.Run("storage failure while placing the method", func(t *testing.T) {
		e, store := newTestEditor(t)
		store.listErr = errors.New("disk on fire")
		f, _ := e.AddForm("cod")
		st := form.NewState(url.Values{"label": {"COD"}, form.OpKey: {"Save"}})
		if _, err := form.Process(context.Background(), f, st); err == nil {
			t.Fatal("expected Process to fail")
		}
		if _, ok := store.methods["cod"]; ok {
			t.Error("method created despite the storage failure")
		}
	})

	t.Run("hidden plugin", func(t *testing.T) {
		e, _ := newTestEditor(t)
		if _, err := e.AddForm("free_order"); !errors.Is(err, plugin.ErrUnknownPlugin) {
			t.Errorf("error = %v, want ErrUnknownPlugin", err)
		}
	})
}

func TestEditForm(t *testing.T) {
	e, store := newTestEditor(t, defaultMethods()...)
	m, _ := store.GetMethod(context.Background(), "cod")

	f, err := e.EditForm(m)
	if err != nil {
		t.Fatalf("EditForm failed: %v", err)
	}
	st, ok := submit(t, f, url.Values{"label": {"Cash"}, SettingField("policy"): {"Pay the driver"}})
	if !ok {
		t.Fatalf("errors = %v", st.Errors())
	}
	got := store.methods["cod"]
	if got.Label != "Cash" || got.Status {
		t.Errorf("method = %+v, want disabled Cash", got)
	}
	if len(st.Messages()) != 1 {
		t.Errorf("messages = %v", st.Messages())
	}
}

func TestDeleteForm(t *testing.T) {
	e, store := newTestEditor(t, defaultMethods()...)

	locked, _ := store.GetMethod(context.Background(), "free_order")
	if _, err := e.DeleteForm(locked); !errors.Is(err, ErrLocked) {
		t.Errorf("error = %v, want ErrLocked", err)
	}

	m, _ := store.GetMethod(context.Background(), "check")
	f, err := e.DeleteForm(m)
	if err != nil {
		t.Fatalf("DeleteForm failed: %v", err)
	}
	st := form.NewState(url.Values{form.OpKey: {"Delete"}})
	if _, err := form.Process(context.Background(), f, st); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if _, ok := store.methods["check"]; ok {
		t.Error("expected check to be deleted")
	}
}

func TestSetStatus(t *testing.T) {
	e, store := newTestEditor(t, defaultMethods()...)
	m, err := e.SetStatus(context.Background(), "check", true)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if !m.Status || !store.methods["check"].Status {
		t.Error("expected check to be enabled")
	}
}
