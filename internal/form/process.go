package form

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoTrigger is returned when a submission matches no button.
var ErrNoTrigger = errors.New("form: submission matches no button")

// Process validates and submits f with the values in st. It reports whether
// submit handlers ran. Validation failures are left on st, not returned.
func Process(ctx context.Context, f *Form, st *State) (bool, error) {
	btn, err := triggeringButton(f, st)
	if err != nil {
		return false, err
	}
	st.Triggering = btn

	validate := btn.Validate
	if validate == nil {
		validate = f.Validate
	}
	for _, h := range validate {
		if err := h(ctx, f, st); err != nil {
			return false, fmt.Errorf("validate %s: %w", f.ID, err)
		}
	}
	if btn.LimitValidationErrors != nil {
		st.ClearErrors(btn.LimitValidationErrors)
	}
	if st.HasErrors() {
		return false, nil
	}

	submit := btn.Submit
	if submit == nil {
		submit = f.Submit
	}
	for _, h := range submit {
		if err := h(ctx, f, st); err != nil {
			return false, fmt.Errorf("submit %s: %w", f.ID, err)
		}
	}
	return true, nil
}

func triggeringButton(f *Form, st *State) (*Button, error) {
	op := st.Values.Get(OpKey)
	buttons := f.Buttons()
	for _, b := range buttons {
		if b.Value == op {
			return b, nil
		}
	}
	// Browsers omit the op value when a form is submitted with the enter key.
	if op == "" && len(buttons) > 0 {
		return buttons[len(buttons)-1], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoTrigger, op)
}
