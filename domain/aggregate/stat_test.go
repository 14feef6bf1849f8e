package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat_NotAvailable(t *testing.T) {
	s := NA()
	assert.False(t, s.Available())
	assert.Equal(t, "N/A", s.String())
	assert.Equal(t, "N/A", s.Format(3))

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `"N/A"`, string(raw))
}

func TestStat_Value(t *testing.T) {
	s := Value(259.5)
	v, ok := s.Float()
	assert.True(t, ok)
	assert.Equal(t, 259.5, v)
	assert.Equal(t, "259.5", s.String())
	assert.Equal(t, "260", s.Format(0))

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `259.5`, string(raw))
}

func TestStat_UnmarshalJSON(t *testing.T) {
	var payload struct {
		A Stat `json:"a"`
		B Stat `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"N/A","b":12.5}`), &payload))
	assert.False(t, payload.A.Available())
	assert.Equal(t, "12.5", payload.B.String())

	var bad Stat
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
}
