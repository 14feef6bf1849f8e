// Package analysis is the aggregation engine: pure, re-entrant functions over a
// Dataset's records and the caller's filter state. Nothing here logs, blocks or
// keeps state between calls.
package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"cardiodash/domain/aggregate"
	"cardiodash/domain/filter"
	"cardiodash/domain/record"
)

// Predicate selects records
type Predicate func(record.Record) bool

// Filter keeps the records matching pred, in input order
func Filter(records []record.Record, pred Predicate) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByRange keeps records whose field lies in the closed interval [min, max]
func FilterByRange(records []record.Record, field record.Field, min, max float64) []record.Record {
	return FilterByInterval(records, field, filter.ClosedInterval(min, max))
}

// FilterByInterval keeps records whose field lies in iv, honoring its bounds
func FilterByInterval(records []record.Record, field record.Field, iv filter.Interval) []record.Record {
	return Filter(records, func(r record.Record) bool {
		return iv.Contains(field.Value(r))
	})
}

// Select applies the age slider, chest pain selection and sex filter of a State
func Select(records []record.Record, s filter.State) []record.Record {
	age := s.AgeRange
	age.Bounds = filter.Closed
	return Filter(records, func(r record.Record) bool {
		return age.Contains(r.Age) && s.HasChestPain(r.ChestPainType) && s.Sex.Matches(r)
	})
}

// CountBy counts the records matching pred. Callers pass the full dataset.
func CountBy(records []record.Record, pred Predicate) int {
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// GroupBy groups records by key. Groups appear in first-seen key order and
// members keep input order.
func GroupBy[K comparable](records []record.Record, keyFn func(record.Record) K) []aggregate.Group[K] {
	index := make(map[K]int)
	var groups []aggregate.Group[K]
	for _, r := range records {
		k := keyFn(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, aggregate.Group[K]{Key: k})
		}
		groups[i].Members = append(groups[i].Members, r)
	}
	return groups
}

// GroupByBins assigns each record to the first bin containing its field value.
// Every bin yields a group, in declared order, even when empty. Records outside
// all bins are dropped.
func GroupByBins(records []record.Record, field record.Field, bins []filter.Interval) []aggregate.Group[string] {
	groups := make([]aggregate.Group[string], len(bins))
	for i, b := range bins {
		groups[i].Key = b.Label()
	}
	for _, r := range records {
		v := field.Value(r)
		for i, b := range bins {
			if b.Contains(v) {
				groups[i].Members = append(groups[i].Members, r)
				break
			}
		}
	}
	return groups
}

// Flatten concatenates group members in group order
func Flatten[K comparable](groups []aggregate.Group[K]) []record.Record {
	var out []record.Record
	for _, g := range groups {
		out = append(out, g.Members...)
	}
	return out
}

// HalfOpenBins turns ascending edges into consecutive [edge[i], edge[i+1]) bins
func HalfOpenBins(edges ...float64) []filter.Interval {
	if len(edges) < 2 {
		return nil
	}
	bins := make([]filter.Interval, 0, len(edges)-1)
	for i := 0; i+1 < len(edges); i++ {
		bins = append(bins, filter.Bin(edges[i], edges[i+1]))
	}
	return bins
}

// Mean is the arithmetic mean of field over members, or N/A when there are none
func Mean(members []record.Record, field record.Field) aggregate.Stat {
	if len(members) == 0 {
		return aggregate.NA()
	}
	m, err := stats.Mean(Values(members, field))
	if err != nil || math.IsNaN(m) {
		return aggregate.NA()
	}
	return aggregate.Value(m)
}

// Values extracts field from every record
func Values(records []record.Record, field record.Field) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = field.Value(r)
	}
	return out
}

// Extent returns the min and max of field; ok is false for no records
func Extent(records []record.Record, field record.Field) (min, max float64, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	vals := Values(records, field)
	return floats.Min(vals), floats.Max(vals), true
}

// AgeDecadeStart is floor(age/10)*10
func AgeDecadeStart(age float64) int {
	return int(math.Floor(age/10)) * 10
}

// AgeDecade labels an age with its closed decade, e.g. 39 -> "30-39". This is not
// a half-open bin and must not be mixed with HalfOpenBins. Decades below zero are
// written "-10 to -1" so the bounds stay readable.
func AgeDecade(age float64) string {
	start := AgeDecadeStart(age)
	if start < 0 {
		return fmt.Sprintf("%d to %d", start, start+9)
	}
	return fmt.Sprintf("%d-%d", start, start+9)
}
