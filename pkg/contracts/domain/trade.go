package domain

// Trade is one cleaned trade record from the B3 daily export.
type Trade struct {
	// InstrumentCode is the ticker-like identifier, at most 5 characters
	// after cleaning (longer codes belong to derivatives and are excluded).
	InstrumentCode string `json:"instrument_code"`

	// CloseTime is the validated time at which the trade was finalized.
	CloseTime TimeOfDay `json:"close_time"`

	// TradeDate is the display form of DataNegocio, DD-MM-YYYY.
	// It is not used for filtering anywhere downstream.
	TradeDate string `json:"trade_date"`

	// Price is PrecoNegocio with the decimal comma replaced by a point.
	Price float64 `json:"price"`
}

// InstrumentOption describes one selectable instrument for the dashboard
// dropdown, labelled with its precomputed aggregates.
type InstrumentOption struct {
	Code  string  `json:"code"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}
