package dashboard

import (
	"errors"
	"fmt"
	"strconv"

	"b3dash/pkg/contracts/domain"
)

// ErrUnknownInstrument is returned when an event references a code absent
// from the aggregate maps. The dropdown is populated from exactly that key
// set, so hitting this means an internal-consistency violation; it is
// surfaced to the caller rather than swallowed.
var ErrUnknownInstrument = errors.New("instrument has no aggregate entry")

// Reducer folds UI events into selection state and chart specs over the
// shared read-only dataset.
type Reducer struct {
	dataset *domain.Dataset
}

// NewReducer creates a reducer bound to the loaded dataset.
func NewReducer(dataset *domain.Dataset) *Reducer {
	return &Reducer{dataset: dataset}
}

// Reduce applies one event to the current selection and returns the next
// selection plus the chart describing it. It is a pure function of its
// inputs: the dataset is never mutated and the returned state shares no
// memory with cur.
func (r *Reducer) Reduce(ev Event, cur SelectionState) (SelectionState, *ChartSpec, error) {
	var next SelectionState

	switch ev.Kind {
	case EventClearAll:
		next = EmptySelection()

	case EventAddStock:
		next = cur.clone()
		if !cur.Contains(ev.Code) {
			entry, err := r.checklistEntry(ev.Code)
			if err != nil {
				return cur, nil, err
			}
			next.Selected = append(next.Selected, ev.Code)
			next.Checklist = append(next.Checklist, entry)
		}

	case EventSyncChecklist:
		// Adopt whatever subset the checklist reports as checked. The
		// checklist entries are pruned to match: keeping entries for
		// unchecked codes would resurrect them with stale labels on the
		// next render.
		selected := dedupe(ev.Checked)
		next = SelectionState{
			Selected:  selected,
			Checklist: make([]ChecklistEntry, 0, len(selected)),
		}
		for _, code := range selected {
			entry, err := r.checklistEntry(code)
			if err != nil {
				return cur, nil, err
			}
			next.Checklist = append(next.Checklist, entry)
		}

	default:
		return cur, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	return next, r.BuildChart(next.Selected), nil
}

// checklistEntry builds the labelled entry for code from the precomputed
// aggregates.
func (r *Reducer) checklistEntry(code string) (ChecklistEntry, error) {
	if !r.dataset.HasInstrument(code) {
		return ChecklistEntry{}, fmt.Errorf("%w: %s", ErrUnknownInstrument, code)
	}
	return ChecklistEntry{
		Code:  code,
		Label: InstrumentLabel(code, r.dataset.MeanPrice[code], r.dataset.TradeCount[code]),
	}, nil
}

// InstrumentLabel renders the dropdown/checklist label for an instrument.
func InstrumentLabel(code string, mean float64, count int) string {
	return fmt.Sprintf("%s (Mean: %s, Count: %d)",
		code, strconv.FormatFloat(mean, 'f', -1, 64), count)
}

// dedupe removes duplicates while preserving first occurrence order, keeping
// the no-duplicates invariant even if the UI reports a code twice.
func dedupe(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
