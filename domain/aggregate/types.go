package aggregate

import (
	"cardiodash/domain/record"
)

// Group is one key of a groupBy and the records that share it, in input order
type Group[K comparable] struct {
	Key     K               `json:"key"`
	Members []record.Record `json:"-"`
}

// Count returns the number of members
func (g Group[K]) Count() int {
	return len(g.Members)
}

// Bucket is a labelled group summary: a count plus named means
type Bucket struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Means map[string]Stat `json:"means,omitempty"`
}

// DiseaseStats is one row of the summary card
type DiseaseStats struct {
	Group           string `json:"group"`
	Count           int    `json:"count"`
	AvgCholesterol  Stat   `json:"avg_chol"`
	AvgAge          Stat   `json:"avg_age"`
	AvgMaxHeartRate Stat   `json:"avg_thalach"`
}

// SummaryCard compares patients with and without disease for one chest pain type
type SummaryCard struct {
	ChestPainType   record.ChestPainType `json:"cp"`
	ChestPainLabel  string               `json:"cp_label"`
	CholesterolBins []string             `json:"chol_ranges"`
	NoDisease       DiseaseStats         `json:"no_disease"`
	Disease         DiseaseStats         `json:"disease"`
	Total           int                  `json:"total"`
}

// SexFeature is one bar of the grouped chart
type SexFeature struct {
	Sex         record.Sex `json:"sex"`
	Label       string     `json:"label"`
	Count       int        `json:"count"`
	AvgFeature  Stat       `json:"avg_feature"`
	AvgSeverity Stat       `json:"avg_diagnosis"`
}

// AgeGroupFeature is one age-decade cluster of the grouped chart
type AgeGroupFeature struct {
	AgeGroup string       `json:"age_group"`
	Bars     []SexFeature `json:"bars"`
}

// GroupedFeature is the age decade x sex chart for one feature
type GroupedFeature struct {
	Feature record.Field      `json:"feature"`
	Groups  []AgeGroupFeature `json:"groups"`
}

// Point is one scatter mark
type Point struct {
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Severity record.Severity `json:"diag"`
}

// Slice is one pie slice
type Slice struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// CountBucket is one bar of a histogram
type CountBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// ScatterView is the brushed scatter chart with its linked pie and histogram
type ScatterView struct {
	XField          record.Field  `json:"x_field"`
	YField          record.Field  `json:"y_field"`
	Points          []Point       `json:"points"`
	Selected        int           `json:"selected"`
	SexDistribution []Slice       `json:"sex_distribution"`
	AgeDistribution []CountBucket `json:"age_distribution"`
}

// AgeSexSeverity is the mean severity of one decade split by sex
type AgeSexSeverity struct {
	AgeGroup string `json:"age_group"`
	Male     Stat   `json:"male"`
	Female   Stat   `json:"female"`
}

// RiskFactor is one tally of the patterns page
type RiskFactor struct {
	Key    string `json:"key"`
	Factor string `json:"factor"`
	Count  int    `json:"count"`
}

// PatternsView is the age and sex patterns page
type PatternsView struct {
	Sex                 string           `json:"sex"`
	AvgCholByAge        []Bucket         `json:"avg_chol_by_age"`
	SeverityByAgeAndSex []AgeSexSeverity `json:"severity_by_age_sex"`
	RiskFactors         []RiskFactor     `json:"risk_factors"`
}

// ChestPainCount is one card of the comparison page
type ChestPainCount struct {
	ChestPainType record.ChestPainType `json:"cp"`
	Label         string               `json:"label"`
	Count         int                  `json:"count"`
}

// ComparisonView summarizes one named source
type ComparisonView struct {
	Source     string           `json:"source"`
	ChestPain  []ChestPainCount `json:"chest_pain"`
	AgeStats   []Bucket         `json:"age_stats"`
	TotalCount int              `json:"total"`
}

// SeriesPoint is one (max heart-rate, severity) sample
type SeriesPoint struct {
	MaxHeartRate float64         `json:"thalach"`
	Severity     record.Severity `json:"num"`
}

// ChestPainSeries is the area series for one chest pain type
type ChestPainSeries struct {
	ChestPainType record.ChestPainType `json:"cp"`
	Label         string               `json:"label"`
	Points        []SeriesPoint        `json:"points"`
}

// CategoricalView is the age-sliced chest pain chart
type CategoricalView struct {
	AgeMin float64           `json:"age_min"`
	AgeMax float64           `json:"age_max"`
	Series []ChestPainSeries `json:"series"`
}

// FieldSummary describes the distribution of one numeric field
type FieldSummary struct {
	Field  record.Field `json:"field"`
	Count  int          `json:"count"`
	Mean   Stat         `json:"mean"`
	StdDev Stat         `json:"std_dev"`
	Min    Stat         `json:"min"`
	Q25    Stat         `json:"q25"`
	Median Stat         `json:"median"`
	Q75    Stat         `json:"q75"`
	Max    Stat         `json:"max"`
}
