// Package filter holds the transient, caller-owned filter and grouping state.
package filter

import (
	"fmt"
	"math"

	"cardiodash/domain/record"
)

// Bounds selects how an Interval treats its upper end
type Bounds int

const (
	// Closed is [Low, High], used by slider-driven filters
	Closed Bounds = iota
	// HalfOpen is [Low, High), used by every binning operation
	HalfOpen
)

// Interval is a numeric range over one field
type Interval struct {
	Low    float64 `json:"low" validate:"ltefield=High"`
	High   float64 `json:"high"`
	Bounds Bounds  `json:"bounds"`
}

// ClosedInterval builds [low, high]
func ClosedInterval(low, high float64) Interval {
	return Interval{Low: low, High: high, Bounds: Closed}
}

// Bin builds [low, high)
func Bin(low, high float64) Interval {
	return Interval{Low: low, High: high, Bounds: HalfOpen}
}

// Contains reports whether v lies in the interval
func (i Interval) Contains(v float64) bool {
	if v < i.Low {
		return false
	}
	if i.Bounds == HalfOpen {
		return v < i.High
	}
	return v <= i.High
}

// Label renders "low-high" with integral bounds printed without decimals
func (i Interval) Label() string {
	return fmt.Sprintf("%s-%s", formatBound(i.Low), formatBound(i.High))
}

func formatBound(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// SexFilter restricts records by sex
type SexFilter string

const (
	SexAll    SexFilter = "all"
	SexMale   SexFilter = "male"
	SexFemale SexFilter = "female"
)

// ParseSexFilter accepts all/male/female; empty means all
func ParseSexFilter(s string) (SexFilter, error) {
	switch SexFilter(s) {
	case "", SexAll:
		return SexAll, nil
	case SexMale, SexFemale:
		return SexFilter(s), nil
	}
	return "", fmt.Errorf("invalid sex filter %q", s)
}

// Matches reports whether r passes the filter
func (f SexFilter) Matches(r record.Record) bool {
	switch f {
	case SexMale:
		return r.Sex == record.Male
	case SexFemale:
		return r.Sex == record.Female
	default:
		return true
	}
}

// Rect is a brush rectangle in chart pixel space
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Normalized orders the corners so X0<=X1 and Y0<=Y1
func (r Rect) Normalized() Rect {
	out := r
	if out.X0 > out.X1 {
		out.X0, out.X1 = out.X1, out.X0
	}
	if out.Y0 > out.Y1 {
		out.Y0, out.Y1 = out.Y1, out.Y0
	}
	return out
}

// IsEmpty reports a rectangle with no area, which the brush treats as cleared
func (r Rect) IsEmpty() bool {
	n := r.Normalized()
	return n.X0 == n.X1 || n.Y0 == n.Y1
}

// Contains tests the closed rectangle
func (r Rect) Contains(x, y float64) bool {
	n := r.Normalized()
	return x >= n.X0 && x <= n.X1 && y >= n.Y0 && y <= n.Y1
}

// State is everything the UI passes to the aggregation engine on each call
type State struct {
	AgeRange        Interval               `json:"age_range"`
	ChestPainTypes  []record.ChestPainType `json:"chest_pain_types" validate:"dive,min=1,max=4"`
	CholesterolBins []int                  `json:"cholesterol_bins" validate:"dive,min=0"`
	Sex             SexFilter              `json:"sex" validate:"oneof=all male female"`
	Source          string                 `json:"source"`
	Brush           *Rect                  `json:"brush,omitempty"`
}

// DefaultState mirrors the dashboard's initial controls
func DefaultState() State {
	return State{
		AgeRange:        ClosedInterval(30, 60),
		ChestPainTypes:  append([]record.ChestPainType(nil), record.ChestPainTypes...),
		CholesterolBins: []int{0, 1, 2, 3, 4, 5},
		Sex:             SexAll,
	}
}

// HasChestPain reports whether cp is selected; an empty selection selects nothing
func (s State) HasChestPain(cp record.ChestPainType) bool {
	for _, c := range s.ChestPainTypes {
		if c == cp {
			return true
		}
	}
	return false
}
