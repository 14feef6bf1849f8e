package senses

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"

	"cardiodash/domain/record"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SpearmanSense measures the monotonic relationship between a continuous field
// and disease severity (0-4)
type SpearmanSense struct{}

// NewSpearmanSense creates a new Spearman rank correlation sense
func NewSpearmanSense() *SpearmanSense {
	return &SpearmanSense{}
}

// Name returns the sense name
func (s *SpearmanSense) Name() string {
	return "spearman"
}

// Description returns a human-readable description
func (s *SpearmanSense) Description() string {
	return "Rank correlation between a field and disease severity"
}

// Applies reports whether field is continuous or the vessel count
func (s *SpearmanSense) Applies(field record.Field) bool {
	return slices.Contains(ContinuousFields, field) || field == record.FieldVessels
}

// Analyze computes Spearman's rho of field against severity
func (s *SpearmanSense) Analyze(ctx context.Context, records []record.Record, field record.Field) Result {
	if ctx.Err() != nil {
		return insufficient(s.Name(), field, "Analysis cancelled")
	}
	if len(records) < 3 {
		return insufficient(s.Name(), field, "Insufficient data for Spearman correlation analysis")
	}

	x := make([]float64, len(records))
	y := make([]float64, len(records))
	for i, r := range records {
		x[i] = field.Value(r)
		y[i] = float64(r.DiagnosisSeverity)
	}

	rho, pValue, ok := s.computeSpearmanCorrelation(x, y)
	if !ok {
		return insufficient(s.Name(), field, fmt.Sprintf("No rank variation in %s or severity", field))
	}

	return Result{
		SenseName:   s.Name(),
		Field:       field,
		Statistic:   rho,
		EffectSize:  rho,
		PValue:      pValue,
		Confidence:  calculateConfidence(pValue),
		Signal:      classifySignal(rho),
		Description: s.generateDescription(field, rho, pValue),
		Metadata: map[string]interface{}{
			"correlation_type": "rank",
			"sample_size":      len(x),
		},
	}
}

// computeSpearmanCorrelation is the Pearson correlation of the tie-averaged ranks.
// ok is false when either side is constant.
func (s *SpearmanSense) computeSpearmanCorrelation(x, y []float64) (rho, pValue float64, ok bool) {
	n := len(x)
	rho = stat.Correlation(s.computeRanks(x), s.computeRanks(y), nil)
	if math.IsNaN(rho) {
		return 0, 1, false
	}
	rho = math.Max(-1, math.Min(1, rho))

	if math.Abs(rho) == 1 {
		return rho, 0, true
	}
	// t = r * sqrt((n-2)/(1-r²)) with n-2 degrees of freedom
	tStat := rho * math.Sqrt(float64(n-2)/(1-rho*rho))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	pValue = 2 * dist.Survival(math.Abs(tStat))
	return rho, finite(math.Min(pValue, 1), 1), true
}

// computeRanks converts values to ranks, averaging ties
func (s *SpearmanSense) computeRanks(data []float64) []float64 {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && data[idx[j]] == data[idx[i]] {
			j++
		}
		avgRank := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[idx[k]] = avgRank
		}
		i = j
	}
	return ranks
}

// generateDescription creates a human-readable description of the Spearman result
func (s *SpearmanSense) generateDescription(field record.Field, rho, pValue float64) string {
	if pValue > 0.05 {
		return fmt.Sprintf("No significant monotonic relationship between %s and severity (ρ=%.3f, p=%.3f)", field, rho, pValue)
	}

	direction := "positive"
	if rho < 0 {
		direction = "negative"
	}

	var strength string
	absRho := math.Abs(rho)
	if absRho < 0.2 {
		strength = "Weak"
	} else if absRho < 0.4 {
		strength = "Moderate"
	} else if absRho < 0.6 {
		strength = "Strong"
	} else {
		strength = "Very strong"
	}

	return fmt.Sprintf("%s %s monotonic relationship between %s and severity (ρ=%.3f, p=%.3f)", strength, direction, field, rho, pValue)
}
