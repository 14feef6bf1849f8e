package analysis

import (
	"cardiodash/domain/filter"
	"cardiodash/domain/record"
)

// Scale maps a data value to chart pixel space
type Scale func(float64) float64

// LinearScale maps [d0, d1] onto [r0, r1]. A degenerate domain maps everything
// to the middle of the range.
func LinearScale(d0, d1, r0, r1 float64) Scale {
	if d1 == d0 {
		mid := (r0 + r1) / 2
		return func(float64) float64 { return mid }
	}
	k := (r1 - r0) / (d1 - d0)
	return func(v float64) float64 {
		return r0 + (v-d0)*k
	}
}

// BrushSelect returns the records whose scaled (x, y) falls in the closed
// rectangle. A nil or empty rectangle selects the full input.
func BrushSelect(records []record.Record, xField, yField record.Field, xScale, yScale Scale, rect *filter.Rect) []record.Record {
	if rect == nil || rect.IsEmpty() {
		out := make([]record.Record, len(records))
		copy(out, records)
		return out
	}
	r := rect.Normalized()
	return Filter(records, func(rec record.Record) bool {
		return r.Contains(xScale(xField.Value(rec)), yScale(yField.Value(rec)))
	})
}
