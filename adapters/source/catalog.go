package source

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"cardiodash/domain/core"
)

// Entry maps a source name to its CSV file
type Entry struct {
	Name        core.SourceName `json:"name"`
	File        string          `json:"file"`
	Description string          `json:"description,omitempty"`
}

// Catalog is the fixed set of named sources, in display order
type Catalog struct {
	entries []Entry
}

// DefaultCatalog lists the three processed UCI heart disease files
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Entry{Name: "Cleveland", File: "processed.cleveland.csv", Description: "Cleveland Clinic Foundation"},
		Entry{Name: "Hungarian", File: "processed.hungarian.csv", Description: "Hungarian Institute of Cardiology, Budapest"},
		Entry{Name: "Switzerland", File: "processed.switzerland.csv", Description: "University Hospitals of Zurich and Basel"},
	)
}

// NewCatalog builds a catalog from entries
func NewCatalog(entries ...Entry) *Catalog {
	return &Catalog{entries: append([]Entry(nil), entries...)}
}

// LoadManifest parses a JSON manifest of the form
// {"sources":[{"name":"Cleveland","file":"processed.cleveland.csv"}]}
func LoadManifest(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("catalog manifest is not valid JSON")
	}
	sources := gjson.GetBytes(data, "sources")
	if !sources.IsArray() {
		return nil, fmt.Errorf("catalog manifest has no sources array")
	}

	var entries []Entry
	seen := make(map[string]bool)
	for i, item := range sources.Array() {
		name, err := core.ParseSourceName(item.Get("name").String())
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		file := strings.TrimSpace(item.Get("file").String())
		if file == "" || strings.Contains(file, "..") || strings.ContainsAny(file, `/\`) {
			return nil, fmt.Errorf("source %s: invalid file %q", name, file)
		}
		key := strings.ToLower(name.String())
		if seen[key] {
			return nil, fmt.Errorf("source %s listed twice", name)
		}
		seen[key] = true
		entries = append(entries, Entry{Name: name, File: file, Description: item.Get("description").String()})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog manifest lists no sources")
	}
	return NewCatalog(entries...), nil
}

// Entries returns the catalog in display order
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Names returns the source names in display order
func (c *Catalog) Names() []core.SourceName {
	out := make([]core.SourceName, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Lookup resolves a name case-insensitively
func (c *Catalog) Lookup(name core.SourceName) (Entry, error) {
	for _, e := range c.entries {
		if strings.EqualFold(e.Name.String(), strings.TrimSpace(name.String())) {
			return e, nil
		}
	}
	return Entry{}, core.NewUnknownSourceError(name.String())
}

// ByFile resolves a catalog file name
func (c *Catalog) ByFile(file string) (Entry, bool) {
	for _, e := range c.entries {
		if e.File == file {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve returns the canonical spelling of name
func (c *Catalog) Resolve(name core.SourceName) (core.SourceName, error) {
	e, err := c.Lookup(name)
	if err != nil {
		return "", err
	}
	return e.Name, nil
}
