package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/paysplit/internal/calculator"
)

func newBuiltinRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}
	return r
}

func TestRegistry(t *testing.T) {
	r := newBuiltinRegistry(t)

	t.Run("Definition resolves by id", func(t *testing.T) {
		def, err := r.Definition("check")
		if err != nil {
			t.Fatalf("Definition failed: %v", err)
		}
		if def.Name != "Check" {
			t.Errorf("Name = %q, want Check", def.Name)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := r.Definition("bitcoin")
		if !errors.Is(err, ErrUnknownPlugin) {
			t.Errorf("error = %v, want ErrUnknownPlugin", err)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		err := r.Register(Static(Definition{ID: "check", Name: "Check again"}))
		if !errors.Is(err, ErrDuplicatePlugin) {
			t.Errorf("error = %v, want ErrDuplicatePlugin", err)
		}
	})

	t.Run("free_order is hidden", func(t *testing.T) {
		defs := r.Definitions()
		if !defs["free_order"].NoUI {
			t.Error("expected free_order to be NoUI")
		}
	})

	t.Run("Split runs splitting plugins", func(t *testing.T) {
		shares, err := r.Split("equal", calculator.Order{Total: 20, Subtotal: 20, Payers: []string{"A", "B"}}, nil)
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		if shares["A"].Total != 10 {
			t.Errorf("A total = %v, want 10", shares["A"].Total)
		}
	})

	t.Run("Split rejects static plugins", func(t *testing.T) {
		_, err := r.Split("check", calculator.Order{Total: 1, Subtotal: 1, Payers: []string{"A"}}, nil)
		if !errors.Is(err, ErrNotSplitter) {
			t.Errorf("error = %v, want ErrNotSplitter", err)
		}
	})
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugins.yaml")
	data := `
plugins:
  - id: paypal
    name: PayPal
    settings:
      - key: account
        label: Account email
        required: true
  - id: internal_credit
    name: Store credit
    no_ui: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewRegistry()
	n, err := LoadYAML(r, path)
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d plugins, want 2", n)
	}

	def, err := r.Definition("paypal")
	if err != nil {
		t.Fatalf("Definition failed: %v", err)
	}
	if len(def.Settings) != 1 || !def.Settings[0].Required {
		t.Errorf("settings = %+v, want one required setting", def.Settings)
	}
	hidden, _ := r.Definition("internal_credit")
	if !hidden.NoUI {
		t.Error("expected internal_credit to be NoUI")
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing list", data: "version: 1\n"},
		{name: "missing id", data: "plugins:\n  - name: X\n"},
		{name: "missing name", data: "plugins:\n  - id: x\n"},
		{name: "bad yaml", data: "plugins: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
