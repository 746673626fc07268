package dashboard

// EventKind discriminates the reducer's tagged events.
type EventKind string

const (
	// EventAddStock adds the dropdown's selected instrument to the plot.
	EventAddStock EventKind = "add_stock"
	// EventClearAll empties the selection regardless of prior state.
	EventClearAll EventKind = "clear_all"
	// EventSyncChecklist carries the checked set after the user toggled
	// checklist entries directly, without pressing a button.
	EventSyncChecklist EventKind = "sync_checklist"
)

// Event is one UI interaction, already translated by the transport layer
// from the raw control that fired into a tagged value.
type Event struct {
	Kind EventKind `json:"kind" validate:"required,oneof=add_stock clear_all sync_checklist"`

	// Code is the instrument to add. Required for add_stock.
	Code string `json:"code,omitempty" validate:"required_if=Kind add_stock,omitempty,max=5"`

	// Checked is the full checked set reported by the checklist.
	// Only meaningful for sync_checklist.
	Checked []string `json:"checked,omitempty"`
}
