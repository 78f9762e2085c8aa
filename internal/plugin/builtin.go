package plugin

import (
	"github.com/mmynk/paysplit/internal/calculator"
)

// static is a plugin with a fixed definition and no split behavior.
type static struct {
	def Definition
}

func (s static) Describe() Definition { return s.def }

type splitFunc func(calculator.Order) (map[string]*calculator.Share, error)

type splitting struct {
	def   Definition
	split splitFunc
}

func (s splitting) Describe() Definition { return s.def }

func (s splitting) Split(order calculator.Order, settings map[string]string) (map[string]*calculator.Share, error) {
	return s.split(order)
}

// Static returns a plugin that only describes itself.
func Static(def Definition) Plugin {
	return static{def: def}
}

// Builtins returns the plugins shipped with the server.
func Builtins() []Plugin {
	return []Plugin{
		static{def: Definition{
			ID:          "free_order",
			Name:        "No payment required",
			Description: "Used automatically for orders with a zero total.",
			NoUI:        true,
		}},
		splitting{
			def: Definition{
				ID:          "equal",
				Name:        "Equal split",
				Description: "Divides the order total evenly between payers.",
			},
			split: calculator.Equal,
		},
		splitting{
			def: Definition{
				ID:          "itemized",
				Name:        "Itemized split",
				Description: "Charges each payer for their lines plus a proportional share of tax.",
			},
			split: calculator.Itemized,
		},
		static{def: Definition{
			ID:   "check",
			Name: "Check",
			Settings: []Setting{
				{Key: "policy", Label: "Check payment policy"},
				{Key: "mailing_address", Label: "Mailing address", Required: true},
			},
		}},
		static{def: Definition{
			ID:   "cod",
			Name: "COD",
			Settings: []Setting{
				{Key: "policy", Label: "Policy message", Default: "Full payment is expected upon delivery or prior to pick-up."},
				{Key: "max_order", Label: "Maximum order total eligible for COD", Default: "0"},
			},
		}},
		static{def: Definition{
			ID:   "other",
			Name: "Other",
		}},
	}
}

// RegisterBuiltins registers every built-in plugin in r.
func RegisterBuiltins(r *Registry) error {
	for _, p := range Builtins() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}
