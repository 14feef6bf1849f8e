package coercer

import (
	"math"
	"strconv"
	"strings"
)

// CellState classifies a coerced cell
type CellState int

const (
	CellNumeric CellState = iota
	// CellMissing is the "?" sentinel or a blank cell
	CellMissing
	// CellInvalid is text that does not parse as a finite number
	CellInvalid
)

// Cell is one coerced value. Value is meaningful only when State is CellNumeric;
// missing cells never default to zero.
type Cell struct {
	Value float64
	State CellState
}

// IsNumeric reports whether the cell holds a usable number
func (c Cell) IsNumeric() bool {
	return c.State == CellNumeric
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	MissingSentinels []string `json:"missing_sentinels"` // cells that mean "no value"
}

// DefaultCoercionConfig treats "?" as the only missing sentinel
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingSentinels: []string{"?"},
	}
}

// TypeCoercer handles deterministic numeric coercion of CSV cells
type TypeCoercer struct {
	config   CoercionConfig
	sentinel map[string]struct{}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	sentinel := make(map[string]struct{}, len(config.MissingSentinels))
	for _, s := range config.MissingSentinels {
		sentinel[strings.TrimSpace(s)] = struct{}{}
	}
	return &TypeCoercer{config: config, sentinel: sentinel}
}

// CoerceCell converts one raw cell to a number or a missing/invalid marker
func (c *TypeCoercer) CoerceCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Cell{State: CellMissing}
	}
	if _, ok := c.sentinel[s]; ok {
		return Cell{State: CellMissing}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Cell{State: CellInvalid}
	}
	return Cell{Value: v, State: CellNumeric}
}

// CoerceRow coerces the first n cells. It returns the values and the state of the
// first non-numeric cell (CellNumeric when all n parsed).
func (c *TypeCoercer) CoerceRow(cells []string, n int) ([]float64, CellState) {
	if n > len(cells) {
		n = len(cells)
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		cell := c.CoerceCell(cells[i])
		if !cell.IsNumeric() {
			return nil, cell.State
		}
		values[i] = cell.Value
	}
	return values, CellNumeric
}
