package dataset

import (
	"encoding/json"
	"testing"

	"cardiodash/domain/core"
	"cardiodash/domain/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(t *testing.T) []record.Record {
	t.Helper()
	a, err := record.New([]float64{63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3, 3, 0, 6, 0})
	require.NoError(t, err)
	b, err := record.New([]float64{67, 1, 4, 160, 286, 0, 2, 108, 1, 1.5, 2, 3, 3, 2})
	require.NoError(t, err)
	return []record.Record{a, b}
}

func TestNew_CopiesRecords(t *testing.T) {
	recs := sampleRecords(t)
	ds := New(SourceOrigin("Cleveland"), core.NewHash([]byte("x")), recs, IngestReport{Accepted: 2, TotalRows: 2})

	recs[0].Age = 99
	assert.Equal(t, 63.0, ds.Records()[0].Age, "dataset must not alias caller slice")

	out := ds.Records()
	out[1].Cholesterol = 1
	assert.Equal(t, 286.0, ds.Records()[1].Cholesterol, "Records must return a copy")
	assert.False(t, ds.ID().IsEmpty())
	assert.Equal(t, 2, ds.Len())
}

func TestEmpty(t *testing.T) {
	ds := Empty()
	assert.True(t, ds.IsEmpty())
	assert.Nil(t, ds.Records())

	var nilDS *Dataset
	assert.True(t, nilDS.IsEmpty())
	assert.Equal(t, 0, nilDS.Report().Accepted)
}

func TestEqual_IgnoresIdentity(t *testing.T) {
	recs := sampleRecords(t)
	a := New(SourceOrigin("Cleveland"), "", recs, IngestReport{})
	b := New(SourceOrigin("Cleveland"), "", recs, IngestReport{})
	c := New(SourceOrigin("Cleveland"), "", []record.Record{recs[1], recs[0]}, IngestReport{})

	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "order is part of content")
}

func TestMarshalJSON_EmptyState(t *testing.T) {
	raw, err := json.Marshal(Empty())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["empty"])
	assert.Equal(t, []interface{}{}, decoded["records"])
	_, hasLoaded := decoded["loaded_at"]
	assert.False(t, hasLoaded)
}
