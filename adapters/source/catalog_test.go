package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiodash/domain/core"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []core.SourceName{"Cleveland", "Hungarian", "Switzerland"}, c.Names())

	e, err := c.Lookup("hungarian")
	require.NoError(t, err)
	assert.Equal(t, "processed.hungarian.csv", e.File)

	_, err = c.Lookup("VA Long Beach")
	assert.ErrorIs(t, err, core.ErrUnknownSource)
	assert.True(t, core.IsNotFoundError(err))

	_, ok := c.ByFile("processed.switzerland.csv")
	assert.True(t, ok)
	_, ok = c.ByFile("secrets.csv")
	assert.False(t, ok)
}

func TestLoadManifest(t *testing.T) {
	c, err := LoadManifest([]byte(`{"sources":[
		{"name":"Cleveland","file":"processed.cleveland.csv","description":"CCF"},
		{"name":"Long Beach","file":"processed.va.csv"}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []core.SourceName{"Cleveland", "Long Beach"}, c.Names())
	assert.Equal(t, "CCF", c.Entries()[0].Description)
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":       `{"sources":`,
		"no array":       `{"sources":{}}`,
		"empty":          `{"sources":[]}`,
		"blank name":     `{"sources":[{"name":" ","file":"a.csv"}]}`,
		"path traversal": `{"sources":[{"name":"x","file":"../etc/passwd"}]}`,
		"nested path":    `{"sources":[{"name":"x","file":"a/b.csv"}]}`,
		"duplicate":      `{"sources":[{"name":"x","file":"a.csv"},{"name":"X","file":"b.csv"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadManifest([]byte(body))
			assert.Error(t, err)
		})
	}
}
