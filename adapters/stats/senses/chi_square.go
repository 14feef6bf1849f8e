package senses

import (
	"context"
	"fmt"
	"math"
	"slices"

	"cardiodash/domain/record"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareSense tests independence between a coded field and the disease outcome
type ChiSquareSense struct{}

// NewChiSquareSense creates a new Chi-Square test sense
func NewChiSquareSense() *ChiSquareSense {
	return &ChiSquareSense{}
}

// Name returns the sense name
func (s *ChiSquareSense) Name() string {
	return "chi_square"
}

// Description returns a human-readable description
func (s *ChiSquareSense) Description() string {
	return "Association between a coded field and disease presence (test of independence)"
}

// Applies reports whether field is categorical
func (s *ChiSquareSense) Applies(field record.Field) bool {
	return slices.Contains(CategoricalFields, field)
}

// Analyze performs the Chi-Square test on the code x disease table
func (s *ChiSquareSense) Analyze(ctx context.Context, records []record.Record, field record.Field) Result {
	if ctx.Err() != nil {
		return insufficient(s.Name(), field, "Analysis cancelled")
	}
	if len(records) < 10 {
		return insufficient(s.Name(), field, "Insufficient data for Chi-Square analysis")
	}

	codes, table := s.buildContingencyTable(records, field)
	if len(codes) < 2 || columnTotal(table, 0) == 0 || columnTotal(table, 1) == 0 {
		return insufficient(s.Name(), field, "Could not build suitable contingency table for Chi-Square test")
	}

	chiSq, df, pValue, cramerV := s.computeChiSquare(table)

	return Result{
		SenseName:   s.Name(),
		Field:       field,
		Statistic:   chiSq,
		EffectSize:  cramerV,
		PValue:      pValue,
		Confidence:  calculateConfidence(pValue),
		Signal:      classifySignal(cramerV),
		Description: s.generateDescription(field, chiSq, pValue, cramerV, len(codes)),
		Metadata: map[string]interface{}{
			"degrees_freedom": df,
			"codes":           codes,
			"table":           table,
		},
	}
}

// buildContingencyTable returns the distinct codes in ascending order and one row
// per code of {no disease, disease} counts
func (s *ChiSquareSense) buildContingencyTable(records []record.Record, field record.Field) ([]float64, [][2]int) {
	var codes []float64
	for _, r := range records {
		v := field.Value(r)
		if !slices.Contains(codes, v) {
			codes = append(codes, v)
		}
	}
	slices.Sort(codes)

	table := make([][2]int, len(codes))
	for _, r := range records {
		row := slices.Index(codes, field.Value(r))
		col := 0
		if r.DiagnosisSeverity.HasDisease() {
			col = 1
		}
		table[row][col]++
	}
	return codes, table
}

func columnTotal(table [][2]int, col int) int {
	total := 0
	for _, row := range table {
		total += row[col]
	}
	return total
}

// computeChiSquare returns the statistic, degrees of freedom, p-value and Cramer's V
func (s *ChiSquareSense) computeChiSquare(table [][2]int) (chiSq float64, df int, pValue float64, cramerV float64) {
	rows := len(table)
	rowTotals := make([]int, rows)
	colTotals := [2]int{}
	total := 0
	for i, row := range table {
		for j, n := range row {
			rowTotals[i] += n
			colTotals[j] += n
			total += n
		}
	}

	for i, row := range table {
		for j, n := range row {
			expected := float64(rowTotals[i]*colTotals[j]) / float64(total)
			if expected > 0 {
				chiSq += math.Pow(float64(n)-expected, 2) / expected
			}
		}
	}

	df = rows - 1 // (rows-1) * (2-1)
	pValue = distuv.ChiSquared{K: float64(df)}.Survival(chiSq)

	// min(r-1, c-1) is 1 with two outcome columns
	cramerV = math.Sqrt(chiSq / float64(total))
	return finite(chiSq, 0), df, finite(pValue, 1), finite(cramerV, 0)
}

// generateDescription creates a human-readable description of the Chi-Square result
func (s *ChiSquareSense) generateDescription(field record.Field, chiSq, pValue, cramerV float64, codes int) string {
	if pValue > 0.05 {
		return fmt.Sprintf("No significant association between %s and heart disease (χ²=%.3f, p=%.3f, V=%.3f)", field, chiSq, pValue, cramerV)
	}

	var strength string
	if cramerV < 0.1 {
		strength = "Weak"
	} else if cramerV < 0.3 {
		strength = "Moderate"
	} else if cramerV < 0.5 {
		strength = "Strong"
	} else {
		strength = "Very strong"
	}

	return fmt.Sprintf("%s association between %s and heart disease (χ²=%.3f, p=%.3f, V=%.3f, %dx2 table)", strength, field, chiSq, pValue, cramerV, codes)
}
