package dashboard

// ChecklistEntry is one labelled checkbox in the dashboard checklist.
type ChecklistEntry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// SelectionState is the per-session UI state threaded through every
// reduction. Selected holds instrument codes in insertion order with no
// duplicates; Checklist stays 1:1 with Selected.
type SelectionState struct {
	Selected  []string         `json:"selected"`
	Checklist []ChecklistEntry `json:"checklist"`
}

// EmptySelection returns the state a fresh session starts in.
func EmptySelection() SelectionState {
	return SelectionState{Selected: []string{}, Checklist: []ChecklistEntry{}}
}

// Contains reports whether code is already selected.
func (s SelectionState) Contains(code string) bool {
	for _, c := range s.Selected {
		if c == code {
			return true
		}
	}
	return false
}

// clone deep-copies the state so reductions never alias the caller's slices.
func (s SelectionState) clone() SelectionState {
	next := SelectionState{
		Selected:  make([]string, len(s.Selected)),
		Checklist: make([]ChecklistEntry, len(s.Checklist)),
	}
	copy(next.Selected, s.Selected)
	copy(next.Checklist, s.Checklist)
	return next
}
