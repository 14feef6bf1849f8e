package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// HeartGeneratorConfig configures the synthetic clinical data generator
type HeartGeneratorConfig struct {
	PatientCount  int     `json:"patient_count"`
	MaleShare     float64 `json:"male_share"`
	DiseaseRate   float64 `json:"disease_rate"`
	MissingRate   float64 `json:"missing_rate"`   // rows with "?" in ca or thal
	MalformedRate float64 `json:"malformed_rate"` // rows with a dropped column
	IncludeHeader bool    `json:"include_header"`
	Seed          int64   `json:"seed"`
}

// DefaultHeartConfig returns a Cleveland-like population
func DefaultHeartConfig() HeartGeneratorConfig {
	return HeartGeneratorConfig{
		PatientCount:  303,
		MaleShare:     0.68,
		DiseaseRate:   0.46,
		MissingRate:   0.02,
		MalformedRate: 0,
		Seed:          42,
	}
}

// GeneratedData is a generated CSV with the row counts a correct ingest must see
type GeneratedData struct {
	Header    []string
	Rows      [][]string
	Valid     int
	Missing   int
	Malformed int
}

// CSV renders the rows as newline-terminated comma-separated text
func (d *GeneratedData) CSV() []byte {
	var b strings.Builder
	if len(d.Header) > 0 {
		b.WriteString(strings.Join(d.Header, ","))
		b.WriteByte('\n')
	}
	for _, row := range d.Rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// HeartDataGenerator generates deterministic heart disease rows
type HeartDataGenerator struct {
	config HeartGeneratorConfig
	rng    *rand.Rand
}

// NewHeartDataGenerator creates a generator; equal configs yield equal output
func NewHeartDataGenerator(config HeartGeneratorConfig) *HeartDataGenerator {
	return &HeartDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces PatientCount rows in the 14-column layout
func (g *HeartDataGenerator) Generate() *GeneratedData {
	out := &GeneratedData{Rows: make([][]string, 0, g.config.PatientCount)}
	if g.config.IncludeHeader {
		out.Header = HeaderRow()
	}

	for i := 0; i < g.config.PatientCount; i++ {
		row := g.patientRow()
		switch {
		case g.rng.Float64() < g.config.MalformedRate:
			row = row[:len(row)-1]
			out.Malformed++
		case g.rng.Float64() < g.config.MissingRate:
			// ca and thal are the columns the processed files leave blank
			row[11+g.rng.Intn(2)] = "?"
			out.Missing++
		default:
			out.Valid++
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// patientRow draws one clinically plausible observation
func (g *HeartDataGenerator) patientRow() []string {
	age := g.clamp(math.Round(g.rng.NormFloat64()*9+54), 29, 77)
	male := g.rng.Float64() < g.config.MaleShare
	sick := g.rng.Float64() < g.config.DiseaseRate

	cp := g.weighted([]float64{0.08, 0.16, 0.28, 0.48})
	if sick && g.rng.Float64() < 0.5 {
		cp = 4
	}
	trestbps := g.clamp(math.Round(g.rng.NormFloat64()*17+131), 94, 200)
	chol := g.clamp(math.Round(g.rng.NormFloat64()*51+246), 126, 564)
	fbs := boolInt(g.rng.Float64() < 0.15)
	restecg := g.weighted([]float64{0.50, 0.01, 0.49}) - 1
	thalach := g.clamp(math.Round(g.rng.NormFloat64()*20+210-age), 71, 202)
	exang := boolInt(g.rng.Float64() < 0.2 || (sick && g.rng.Float64() < 0.4))
	oldpeak := g.clamp(math.Round(g.rng.ExpFloat64()*10)/10, 0, 6.2)
	slope := g.weighted([]float64{0.47, 0.46, 0.07})
	ca := g.weighted([]float64{0.59, 0.22, 0.13, 0.06}) - 1
	thal := []int{3, 6, 7}[g.weighted([]float64{0.55, 0.06, 0.39})-1]

	num := 0
	if sick {
		num = g.weighted([]float64{0.39, 0.26, 0.26, 0.09})
	}

	return []string{
		formatNumber(age),
		strconv.Itoa(boolInt(male)),
		strconv.Itoa(cp),
		formatNumber(trestbps),
		formatNumber(chol),
		strconv.Itoa(fbs),
		strconv.Itoa(restecg),
		formatNumber(thalach),
		strconv.Itoa(exang),
		formatNumber(oldpeak),
		strconv.Itoa(slope),
		strconv.Itoa(ca),
		strconv.Itoa(thal),
		strconv.Itoa(num),
	}
}

// weighted returns a 1-based index drawn with the given weights
func (g *HeartDataGenerator) weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i + 1
		}
		r -= w
	}
	return len(weights)
}

func (g *HeartDataGenerator) clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// HeaderRow returns the column keys in schema order
func HeaderRow() []string {
	return []string{"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg", "thalach", "exang", "oldpeak", "slope", "ca", "thal", "num"}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatNumber prints integral values without a decimal point, like the
// processed UCI files ("63.0" becomes "63")
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
