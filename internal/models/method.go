package models

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMethodID is the locked method seeded on first migration.
const DefaultMethodID = "free_order"

var machineNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// PaymentSplitMethod is a configured payment split method.
type PaymentSplitMethod struct {
	// ID is the machine name of the method (lowercase letters, digits and underscores).
	ID string

	// Label is the human-readable name shown to administrators and at checkout.
	Label string

	// Weight orders methods in the listing and at checkout. Lighter sorts first.
	Weight int

	// Status reports whether the method is enabled.
	Status bool

	// Locked methods may not be deleted.
	Locked bool

	// PluginID references the plugin providing this method's behavior.
	PluginID string

	// Settings holds plugin configuration values keyed by setting key.
	Settings map[string]string

	// CreatedAt is the Unix timestamp when the method was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// EntityID returns the method ID.
func (m *PaymentSplitMethod) EntityID() string { return m.ID }

// EntityLabel returns the method label.
func (m *PaymentSplitMethod) EntityLabel() string { return m.Label }

// EntityWeight returns the method weight.
func (m *PaymentSplitMethod) EntityWeight() int { return m.Weight }

// Enabled reports the method status.
func (m *PaymentSplitMethod) Enabled() bool { return m.Status }

// IsLocked reports whether the method is protected from deletion.
func (m *PaymentSplitMethod) IsLocked() bool { return m.Locked }

// ValidMachineName reports whether id can be used as a method ID.
func ValidMachineName(id string) bool {
	return machineNamePattern.MatchString(id)
}

// MachineName derives a method ID from a label: lowercased, with runs of
// anything other than letters and digits collapsed to a single underscore.
func MachineName(label string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// SortMethods orders methods by weight, then label.
func SortMethods(methods []*PaymentSplitMethod) {
	sort.SliceStable(methods, func(i, j int) bool {
		if methods[i].Weight != methods[j].Weight {
			return methods[i].Weight < methods[j].Weight
		}
		return methods[i].Label < methods[j].Label
	})
}
