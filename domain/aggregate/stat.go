// Package aggregate defines the derived view-model types handed to the chart layer.
package aggregate

import (
	"encoding/json"
	"strconv"
)

// NotAvailable is rendered in place of a statistic over an empty group
const NotAvailable = "N/A"

// Stat is a numeric statistic that may be absent because its group was empty.
// Callers render String() rather than formatting Value directly.
type Stat struct {
	value float64
	ok    bool
}

// Value wraps a computed statistic
func Value(v float64) Stat {
	return Stat{value: v, ok: true}
}

// NA is the empty-group sentinel
func NA() Stat {
	return Stat{}
}

// Available reports whether the statistic was computed
func (s Stat) Available() bool {
	return s.ok
}

// Float returns the value and whether it is available
func (s Stat) Float() (float64, bool) {
	return s.value, s.ok
}

// String formats with one decimal, or "N/A"
func (s Stat) String() string {
	return s.Format(1)
}

// Format formats with the given number of decimals, or "N/A"
func (s Stat) Format(decimals int) string {
	if !s.ok {
		return NotAvailable
	}
	return strconv.FormatFloat(s.value, 'f', decimals, 64)
}

// MarshalJSON emits a number, or the string "N/A"
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.ok {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number or "N/A"
func (s *Stat) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str == NotAvailable {
			*s = NA()
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*s = Value(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Value(v)
	return nil
}
