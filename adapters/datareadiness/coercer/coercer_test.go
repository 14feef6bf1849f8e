package coercer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceCell(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		raw   string
		state CellState
		value float64
	}{
		{"63", CellNumeric, 63},
		{" 2.3 ", CellNumeric, 2.3},
		{"63.0", CellNumeric, 63},
		{"-0.5", CellNumeric, -0.5},
		{"?", CellMissing, 0},
		{" ? ", CellMissing, 0},
		{"", CellMissing, 0},
		{"   ", CellMissing, 0},
		{"abc", CellInvalid, 0},
		{"NaN", CellInvalid, 0},
		{"Inf", CellInvalid, 0},
	}

	for _, tt := range tests {
		cell := c.CoerceCell(tt.raw)
		assert.Equal(t, tt.state, cell.State, "raw %q", tt.raw)
		if tt.state == CellNumeric {
			assert.Equal(t, tt.value, cell.Value, "raw %q", tt.raw)
		}
	}
}

func TestCoerceRow(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	values, state := c.CoerceRow([]string{"1", "2", "3", "extra"}, 3)
	assert.Equal(t, CellNumeric, state)
	assert.Equal(t, []float64{1, 2, 3}, values)

	values, state = c.CoerceRow([]string{"1", "?", "x"}, 3)
	assert.Equal(t, CellMissing, state)
	assert.Nil(t, values)

	_, state = c.CoerceRow([]string{"1", "x", "?"}, 3)
	assert.Equal(t, CellInvalid, state, "first offending cell decides")
}

func TestCustomSentinels(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{MissingSentinels: []string{"?", "NA", "-9"}})
	assert.Equal(t, CellMissing, c.CoerceCell("NA").State)
	assert.Equal(t, CellMissing, c.CoerceCell("-9").State)
	assert.Equal(t, CellNumeric, c.CoerceCell("-9.5").State)
}
