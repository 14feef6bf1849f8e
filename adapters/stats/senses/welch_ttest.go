package senses

import (
	"context"
	"fmt"
	"math"
	"slices"

	"cardiodash/domain/record"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchTTestSense compares a continuous field's mean between patients with and
// without disease, allowing unequal variances
type WelchTTestSense struct{}

// NewWelchTTestSense creates a new Welch's t-test sense
func NewWelchTTestSense() *WelchTTestSense {
	return &WelchTTestSense{}
}

// Name returns the sense name
func (s *WelchTTestSense) Name() string {
	return "welch_ttest"
}

// Description returns a human-readable description
func (s *WelchTTestSense) Description() string {
	return "Difference in means between disease and no-disease groups with unequal variances"
}

// Applies reports whether field is continuous
func (s *WelchTTestSense) Applies(field record.Field) bool {
	return slices.Contains(ContinuousFields, field)
}

// Analyze performs Welch's t-test of field between the disease groups
func (s *WelchTTestSense) Analyze(ctx context.Context, records []record.Record, field record.Field) Result {
	if ctx.Err() != nil {
		return insufficient(s.Name(), field, "Analysis cancelled")
	}

	healthy, diseased := splitByDisease(records, field)
	if len(healthy) < 2 || len(diseased) < 2 {
		return insufficient(s.Name(), field, "Insufficient data for Welch's t-test: each group needs at least 2 patients")
	}

	tStat, df, pValue, effectSize := s.computeWelchTTest(diseased, healthy)
	meanDiseased := stat.Mean(diseased, nil)
	meanHealthy := stat.Mean(healthy, nil)

	return Result{
		SenseName:   s.Name(),
		Field:       field,
		Statistic:   tStat,
		EffectSize:  effectSize, // Cohen's d, disease minus no disease
		PValue:      pValue,
		Confidence:  calculateConfidence(pValue),
		Signal:      classifySignal(effectSize),
		Description: s.generateDescription(field, tStat, pValue, effectSize, len(diseased), len(healthy)),
		Metadata: map[string]interface{}{
			"degrees_freedom": df,
			"disease_size":    len(diseased),
			"no_disease_size": len(healthy),
			"disease_mean":    meanDiseased,
			"no_disease_mean": meanHealthy,
			"mean_difference": meanDiseased - meanHealthy,
		},
	}
}

// computeWelchTTest returns t, the Welch-Satterthwaite degrees of freedom, the
// two-sided p-value and Cohen's d
func (s *WelchTTestSense) computeWelchTTest(group1, group2 []float64) (tStat, df, pValue, effectSize float64) {
	n1 := float64(len(group1))
	n2 := float64(len(group2))
	mean1, var1 := stat.MeanVariance(group1, nil)
	mean2, var2 := stat.MeanVariance(group2, nil)

	se2 := var1/n1 + var2/n2
	if se2 == 0 {
		// Both groups constant: no evidence either way
		return 0, n1 + n2 - 2, 1.0, 0
	}
	tStat = (mean1 - mean2) / math.Sqrt(se2)
	df = se2 * se2 / (math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue = 2 * dist.Survival(math.Abs(tStat))

	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooledSD > 0 {
		effectSize = (mean1 - mean2) / pooledSD
	}
	return finite(tStat, 0), finite(df, 0), finite(math.Min(pValue, 1), 1), finite(effectSize, 0)
}

// generateDescription creates a human-readable description of the t-test result
func (s *WelchTTestSense) generateDescription(field record.Field, tStat, pValue, effectSize float64, nDisease, nHealthy int) string {
	if pValue > 0.05 {
		return fmt.Sprintf("No significant difference in %s between groups (t=%.3f, p=%.3f, d=%.3f, n=%d/%d)", field, tStat, pValue, effectSize, nDisease, nHealthy)
	}

	direction := "higher"
	if tStat < 0 {
		direction = "lower"
	}

	var strength string
	absD := math.Abs(effectSize)
	if absD < 0.2 {
		strength = "small"
	} else if absD < 0.5 {
		strength = "medium"
	} else if absD < 0.8 {
		strength = "large"
	} else {
		strength = "very large"
	}

	return fmt.Sprintf("Patients with heart disease have a %s %s mean %s (t=%.3f, p=%.3f, d=%.3f, n=%d/%d)", strength, direction, field, tStat, pValue, effectSize, nDisease, nHealthy)
}
