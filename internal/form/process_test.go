package form

import (
	"context"
	"errors"
	"net/url"
	"testing"
)

func newTestForm(calls *[]string) *Form {
	f := New("test_form")
	f.Add(
		&Details{
			Name: "add",
			Children: []Element{
				&Select{Name: "kind", Options: []Option{{Value: "a", Label: "A"}}},
				&Button{
					Name:  "add_submit",
					Value: "Add",
					Validate: []Handler{func(ctx context.Context, f *Form, st *State) error {
						*calls = append(*calls, "validate-add")
						if st.IsValueEmpty("kind") {
							st.SetErrorByName("kind", "pick one")
						}
						st.SetErrorByName("unrelated", "ignored")
						return nil
					}},
					Submit: []Handler{func(ctx context.Context, f *Form, st *State) error {
						*calls = append(*calls, "submit-add")
						st.SetRedirect("add", map[string]string{"kind": st.Value("kind")})
						return nil
					}},
					LimitValidationErrors: []string{"kind"},
				},
			},
		},
		&Actions{Buttons: []*Button{{Name: "submit", Value: "Save", Primary: true}}},
	)
	f.Validate = []Handler{func(ctx context.Context, f *Form, st *State) error {
		*calls = append(*calls, "validate-form")
		return nil
	}}
	f.Submit = []Handler{func(ctx context.Context, f *Form, st *State) error {
		*calls = append(*calls, "submit-form")
		st.AddMessage("saved")
		return nil
	}}
	return f
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("button handlers with limited errors", func(t *testing.T) {
		var calls []string
		f := newTestForm(&calls)
		st := NewState(url.Values{OpKey: {"Add"}})

		submitted, err := Process(ctx, f, st)
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		if submitted {
			t.Error("expected submission to be blocked")
		}
		if st.Error("kind") != "pick one" {
			t.Errorf("kind error = %q", st.Error("kind"))
		}
		if st.Error("unrelated") != "" {
			t.Error("expected unrelated error to be dropped")
		}
		if len(calls) != 1 || calls[0] != "validate-add" {
			t.Errorf("calls = %v", calls)
		}
	})

	t.Run("valid button submission redirects", func(t *testing.T) {
		var calls []string
		f := newTestForm(&calls)
		st := NewState(url.Values{OpKey: {"Add"}, "kind": {"a"}})

		submitted, err := Process(ctx, f, st)
		if err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		if !submitted {
			t.Fatal("expected submission")
		}
		r := st.Redirect()
		if r == nil || r.Route != "add" || r.Params["kind"] != "a" {
			t.Errorf("redirect = %+v", r)
		}
		if st.Triggering == nil || st.Triggering.Name != "add_submit" {
			t.Errorf("triggering = %+v", st.Triggering)
		}
	})

	t.Run("form handlers for buttons without their own", func(t *testing.T) {
		var calls []string
		f := newTestForm(&calls)
		st := NewState(url.Values{OpKey: {"Save"}})

		if _, err := Process(ctx, f, st); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		if len(calls) != 2 || calls[0] != "validate-form" || calls[1] != "submit-form" {
			t.Errorf("calls = %v", calls)
		}
		if len(st.Messages()) != 1 {
			t.Errorf("messages = %v", st.Messages())
		}
	})

	t.Run("enter key submits with the last button", func(t *testing.T) {
		var calls []string
		f := newTestForm(&calls)
		if _, err := Process(ctx, f, NewState(url.Values{"kind": {"a"}})); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		if len(calls) != 2 || calls[1] != "submit-form" {
			t.Errorf("calls = %v", calls)
		}
	})

	t.Run("unknown op", func(t *testing.T) {
		var calls []string
		f := newTestForm(&calls)
		_, err := Process(ctx, f, NewState(url.Values{OpKey: {"Nope"}}))
		if !errors.Is(err, ErrNoTrigger) {
			t.Errorf("error = %v, want ErrNoTrigger", err)
		}
	})

	t.Run("handler errors abort", func(t *testing.T) {
		f := New("boom")
		boom := errors.New("boom")
		f.Add(&Actions{Buttons: []*Button{{Name: "submit", Value: "Go"}}})
		f.Submit = []Handler{func(ctx context.Context, f *Form, st *State) error { return boom }}
		_, err := Process(ctx, f, NewState(url.Values{OpKey: {"Go"}}))
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want boom", err)
		}
	})
}

func TestStateErrorsKeepOrder(t *testing.T) {
	st := NewState(nil)
	st.SetErrorByName("b", "first b")
	st.SetErrorByName("a", "first a")
	st.SetErrorByName("b", "second b")

	errs := st.Errors()
	if len(errs) != 2 || errs[0].Name != "b" || errs[0].Message != "first b" || errs[1].Name != "a" {
		t.Errorf("errors = %+v", errs)
	}
	if st.Submitted() {
		t.Error("empty state should not be submitted")
	}
}
