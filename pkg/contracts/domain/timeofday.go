package domain

import (
	"encoding/json"
	"fmt"
)

// TimeOfDay represents a trade close time with hundredth-of-second precision.
// The B3 HoraFechamento field carries 8 digits (HHMMSSmm); only the first two
// fractional digits are kept, matching the source feed's resolution.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Hundredths int
}

// ParseCloseTime parses a raw HoraFechamento value into a TimeOfDay.
// The input is left-padded with zeros to 8 digits before splitting into
// HH/MM/SS/hh components. Out-of-range components are an error, never clamped.
func ParseCloseTime(raw string) (TimeOfDay, error) {
	if raw == "" {
		return TimeOfDay{}, fmt.Errorf("empty close time")
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return TimeOfDay{}, fmt.Errorf("close time %q is not numeric", raw)
		}
	}
	if len(raw) > 8 {
		return TimeOfDay{}, fmt.Errorf("close time %q exceeds 8 digits", raw)
	}
	for len(raw) < 8 {
		raw = "0" + raw
	}

	t := TimeOfDay{
		Hour:       digits2(raw[0:2]),
		Minute:     digits2(raw[2:4]),
		Second:     digits2(raw[4:6]),
		Hundredths: digits2(raw[6:8]),
	}

	if t.Hour > 23 {
		return TimeOfDay{}, fmt.Errorf("close time %q: hour %d out of range", raw, t.Hour)
	}
	if t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("close time %q: minute %d out of range", raw, t.Minute)
	}
	if t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("close time %q: second %d out of range", raw, t.Second)
	}

	return t, nil
}

func digits2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

// String formats the time as HH:MM:SS.hh, round-tripping ParseCloseTime input.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%02d", t.Hour, t.Minute, t.Second, t.Hundredths)
}

// Centis returns the time as hundredths of a second since midnight.
// Used as the sortable and plottable representation of a close time.
func (t TimeOfDay) Centis() int {
	return ((t.Hour*60+t.Minute)*60+t.Second)*100 + t.Hundredths
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Centis() < other.Centis()
}

// MarshalJSON renders the time in its display form.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
