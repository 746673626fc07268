package domain

import "sort"

// Dataset is the cleaned trade table plus the per-instrument aggregates
// derived from it. It is built once at startup and never mutated afterwards,
// so it may be shared across sessions without locking.
type Dataset struct {
	// Trades holds every cleaned record, in source file order.
	Trades []Trade `json:"trades"`

	// MeanPrice maps instrument code to its arithmetic mean trade price,
	// rounded to 2 decimal places.
	MeanPrice map[string]float64 `json:"mean_price"`

	// TradeCount maps instrument code to its number of trades.
	TradeCount map[string]int `json:"trade_count"`

	// Instruments lists the distinct codes ordered ascending by mean price.
	// Ties keep the order the codes were first seen in the source file.
	Instruments []string `json:"instruments"`
}

// HasInstrument reports whether code has aggregate entries in the dataset.
func (d *Dataset) HasInstrument(code string) bool {
	_, ok := d.MeanPrice[code]
	return ok
}

// SeriesFor returns the trades for code ordered ascending by close time.
// The returned slice is a copy; the dataset itself is never reordered.
func (d *Dataset) SeriesFor(code string) []Trade {
	var series []Trade
	for _, t := range d.Trades {
		if t.InstrumentCode == code {
			series = append(series, t)
		}
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].CloseTime.Before(series[j].CloseTime)
	})
	return series
}
