package testkit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"cardiodash/adapters/excel"
)

// CatalogFile pairs a catalog file name with its generator settings
type CatalogFile struct {
	File   string
	Config HeartGeneratorConfig
}

// DefaultCatalogFiles mimics the three processed sources: Cleveland is nearly
// complete while the smaller Hungarian and Swiss files carry many "?" cells.
func DefaultCatalogFiles() []CatalogFile {
	cleveland := DefaultHeartConfig()

	hungarian := DefaultHeartConfig()
	hungarian.PatientCount = 294
	hungarian.MaleShare = 0.72
	hungarian.DiseaseRate = 0.36
	hungarian.MissingRate = 0.3
	hungarian.Seed = 7

	switzerland := DefaultHeartConfig()
	switzerland.PatientCount = 123
	switzerland.MaleShare = 0.92
	switzerland.DiseaseRate = 0.93
	switzerland.MissingRate = 0.4
	switzerland.Seed = 11

	return []CatalogFile{
		{File: "processed.cleveland.csv", Config: cleveland},
		{File: "processed.hungarian.csv", Config: hungarian},
		{File: "processed.switzerland.csv", Config: switzerland},
	}
}

// TestKit writes synthetic fixtures for tests and demos
type TestKit struct {
	dir string
}

// NewTestKit creates a kit that writes under dir
func NewTestKit(dir string) (*TestKit, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create fixture directory: %w", err)
	}
	return &TestKit{dir: dir}, nil
}

// Dir returns the fixture directory
func (k *TestKit) Dir() string {
	return k.dir
}

// WriteCatalog generates every catalog file and returns the data per file name
func (k *TestKit) WriteCatalog(files []CatalogFile) (map[string]*GeneratedData, error) {
	out := make(map[string]*GeneratedData, len(files))
	for _, f := range files {
		data := NewHeartDataGenerator(f.Config).Generate()
		if err := os.WriteFile(filepath.Join(k.dir, f.File), data.CSV(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.File, err)
		}
		out[f.File] = data
	}
	return out, nil
}

// Workbook renders generated data as an XLSX workbook
func Workbook(data *GeneratedData) ([]byte, error) {
	var buf bytes.Buffer
	if err := excel.WriteWorkbook(&buf, data.Header, data.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
