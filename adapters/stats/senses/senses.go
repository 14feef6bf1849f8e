// Package senses measures how strongly each column of a dataset is associated
// with heart disease. Each sense is one statistical test; the Engine runs every
// applicable (sense, field) pair concurrently.
package senses

import (
	"context"
	"math"

	"cardiodash/domain/record"
)

// Result is the output of one sense applied to one field
type Result struct {
	SenseName   string                 `json:"sense_name"`
	Field       record.Field           `json:"field"`
	Statistic   float64                `json:"statistic"`
	EffectSize  float64                `json:"effect_size"`
	PValue      float64                `json:"p_value"`
	Confidence  float64                `json:"confidence"`  // 0-1 confidence score
	Signal      string                 `json:"signal"`      // "weak", "moderate", "strong", "very_strong"
	Description string                 `json:"description"` // Human-readable explanation
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Significant reports p < 0.05
func (r Result) Significant() bool {
	return r.PValue < 0.05
}

// StatisticalSense is one test of a field against the disease outcome
type StatisticalSense interface {
	Name() string
	Description() string
	Applies(field record.Field) bool
	Analyze(ctx context.Context, records []record.Record, field record.Field) Result
}

// Continuous fields are compared by mean and rank; coded fields by contingency table
var (
	ContinuousFields = []record.Field{
		record.FieldAge,
		record.FieldRestingBP,
		record.FieldCholesterol,
		record.FieldMaxHeartRate,
		record.FieldSTDepression,
	}
	CategoricalFields = []record.Field{
		record.FieldSex,
		record.FieldChestPain,
		record.FieldFBS,
		record.FieldRestingECG,
		record.FieldExang,
		record.FieldSTSlope,
		record.FieldVessels,
		record.FieldThal,
	}
)

// SenseEngine orchestrates the statistical senses
type SenseEngine struct {
	senses []StatisticalSense
}

// NewSenseEngine creates an engine with the Welch, chi-square and Spearman senses
func NewSenseEngine() *SenseEngine {
	return &SenseEngine{
		senses: []StatisticalSense{
			NewWelchTTestSense(),
			NewChiSquareSense(),
			NewSpearmanSense(),
		},
	}
}

type job struct {
	sense StatisticalSense
	field record.Field
}

// AnalyzeAll runs every applicable (sense, field) pair concurrently. Results are
// ordered by sense, then by schema field order.
func (e *SenseEngine) AnalyzeAll(ctx context.Context, records []record.Record) ([]Result, error) {
	var jobs []job
	for _, sense := range e.senses {
		for _, field := range record.Fields() {
			if sense.Applies(field) {
				jobs = append(jobs, job{sense: sense, field: field})
			}
		}
	}
	return e.run(ctx, records, jobs)
}

// AnalyzeField runs every sense that applies to field
func (e *SenseEngine) AnalyzeField(ctx context.Context, records []record.Record, field record.Field) ([]Result, error) {
	var jobs []job
	for _, sense := range e.senses {
		if sense.Applies(field) {
			jobs = append(jobs, job{sense: sense, field: field})
		}
	}
	return e.run(ctx, records, jobs)
}

func (e *SenseEngine) run(ctx context.Context, records []record.Record, jobs []job) ([]Result, error) {
	results := make([]Result, len(jobs))

	type resultWithIndex struct {
		result Result
		index  int
	}
	resultChan := make(chan resultWithIndex, len(jobs))

	for i, j := range jobs {
		go func(j job, idx int) {
			resultChan <- resultWithIndex{result: j.sense.Analyze(ctx, records, j.field), index: idx}
		}(j, i)
	}

	for range jobs {
		res := <-resultChan
		results[res.index] = res.result
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListSenses returns all available sense names
func (e *SenseEngine) ListSenses() []string {
	names := make([]string, len(e.senses))
	for i, sense := range e.senses {
		names[i] = sense.Name()
	}
	return names
}

// insufficient is the neutral result for inputs a test cannot use
func insufficient(sense string, field record.Field, why string) Result {
	return Result{
		SenseName:   sense,
		Field:       field,
		PValue:      1.0,
		Signal:      "weak",
		Description: why,
	}
}

// splitByDisease returns field values for the no-disease and disease groups
func splitByDisease(records []record.Record, field record.Field) (healthy, diseased []float64) {
	for _, r := range records {
		if r.DiagnosisSeverity.HasDisease() {
			diseased = append(diseased, field.Value(r))
		} else {
			healthy = append(healthy, field.Value(r))
		}
	}
	return healthy, diseased
}

// classifySignal converts effect size to signal strength
func classifySignal(effectSize float64) string {
	absEffect := math.Abs(effectSize)
	if absEffect < 0.2 {
		return "weak"
	} else if absEffect < 0.5 {
		return "moderate"
	} else if absEffect < 0.8 {
		return "strong"
	}
	return "very_strong"
}

// calculateConfidence maps a p-value onto [0, 0.99]
func calculateConfidence(pValue float64) float64 {
	if pValue >= 1.0 || math.IsNaN(pValue) {
		return 0.0
	}
	if pValue <= 0.001 {
		return 0.99
	}
	// p=1 -> 0, p=0.001 -> 0.99 on a log scale
	return math.Min(0.99, -math.Log10(pValue)/3.0*0.99)
}

// finite replaces NaN and Inf, which JSON cannot carry
func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
