package analysis

import (
	"math"
	"slices"
	"sort"

	"cardiodash/domain/aggregate"
	"cardiodash/domain/filter"
	"cardiodash/domain/record"
)

// CholesterolRange is one selectable bucket on the summary card
type CholesterolRange struct {
	Label    string
	Interval filter.Interval
}

// CholesterolRanges are the summary card buckets, indexed by filter.State.CholesterolBins
var CholesterolRanges = []CholesterolRange{
	{"Below 150", filter.Bin(0, 150)},
	{"150-200", filter.Bin(150, 200)},
	{"200-250", filter.Bin(200, 250)},
	{"250-300", filter.Bin(250, 300)},
	{"300-350", filter.Bin(300, 350)},
	{"350-400", filter.Bin(350, 400)},
}

// Bin edges used by the scatter histogram and the comparison page
var (
	ScatterAgeEdges    = []float64{25, 35, 45, 55, 70, 100}
	ComparisonAgeEdges = []float64{0, 25, 35, 45, 55, 70, 100}
	PatternDecades     = []int{20, 30, 40, 50, 60, 70}
)

// CholesterolThreshold is the high cholesterol risk factor cut-off (strictly above)
const CholesterolThreshold = 240

// SummaryCard splits the records with the given chest pain type and a cholesterol
// value inside any selected range into disease and no-disease rows.
func SummaryCard(records []record.Record, cp record.ChestPainType, cholBins []int) aggregate.SummaryCard {
	var ranges []filter.Interval
	card := aggregate.SummaryCard{
		ChestPainType:   cp,
		ChestPainLabel:  cp.Label(),
		CholesterolBins: []string{},
	}
	for _, idx := range cholBins {
		if idx < 0 || idx >= len(CholesterolRanges) {
			continue
		}
		ranges = append(ranges, CholesterolRanges[idx].Interval)
		card.CholesterolBins = append(card.CholesterolBins, CholesterolRanges[idx].Label)
	}

	selected := Filter(records, func(r record.Record) bool {
		if r.ChestPainType != cp {
			return false
		}
		for _, iv := range ranges {
			if iv.Contains(r.Cholesterol) {
				return true
			}
		}
		return false
	})

	healthy := Filter(selected, func(r record.Record) bool { return !r.DiagnosisSeverity.HasDisease() })
	sick := Filter(selected, func(r record.Record) bool { return r.DiagnosisSeverity.HasDisease() })

	card.NoDisease = diseaseStats("No Heart Disease", healthy)
	card.Disease = diseaseStats("Heart Disease", sick)
	card.Total = len(selected)
	return card
}

func diseaseStats(label string, members []record.Record) aggregate.DiseaseStats {
	return aggregate.DiseaseStats{
		Group:           label,
		Count:           len(members),
		AvgCholesterol:  Mean(members, record.FieldCholesterol),
		AvgAge:          Mean(members, record.FieldAge),
		AvgMaxHeartRate: Mean(members, record.FieldMaxHeartRate),
	}
}

// GroupedFeatures are the features offered by the grouped chart
var GroupedFeatures = []record.Field{record.FieldCholesterol, record.FieldRestingBP, record.FieldMaxHeartRate}

// Grouped builds the age decade x sex chart. Decades ascend; sexes keep
// first-seen order within each decade.
func Grouped(records []record.Record, feature record.Field) aggregate.GroupedFeature {
	decades := GroupBy(records, func(r record.Record) int { return AgeDecadeStart(r.Age) })
	sort.SliceStable(decades, func(i, j int) bool { return decades[i].Key < decades[j].Key })

	out := aggregate.GroupedFeature{Feature: feature, Groups: make([]aggregate.AgeGroupFeature, 0, len(decades))}
	for _, d := range decades {
		bars := make([]aggregate.SexFeature, 0, 2)
		for _, g := range GroupBy(d.Members, func(r record.Record) record.Sex { return r.Sex }) {
			bars = append(bars, aggregate.SexFeature{
				Sex:         g.Key,
				Label:       g.Key.Label(),
				Count:       g.Count(),
				AvgFeature:  Mean(g.Members, feature),
				AvgSeverity: Mean(g.Members, record.FieldSeverity),
			})
		}
		out.Groups = append(out.Groups, aggregate.AgeGroupFeature{
			AgeGroup: AgeDecade(float64(d.Key)),
			Bars:     bars,
		})
	}
	return out
}

// ScatterOptions describes the chart the brush was drawn on
type ScatterOptions struct {
	XField record.Field
	YField record.Field
	Width  float64
	Height float64
	Brush  *filter.Rect
}

// DefaultScatterOptions plots resting blood pressure against cholesterol
func DefaultScatterOptions() ScatterOptions {
	return ScatterOptions{
		XField: record.FieldRestingBP,
		YField: record.FieldCholesterol,
		Width:  600,
		Height: 400,
	}
}

// Scales returns the linear scales for the chart: each field's extent maps to the
// chart size, with y inverted.
func (o ScatterOptions) Scales(records []record.Record) (Scale, Scale) {
	x0, x1, _ := Extent(records, o.XField)
	y0, y1, _ := Extent(records, o.YField)
	return LinearScale(x0, x1, 0, o.Width), LinearScale(y0, y1, o.Height, 0)
}

// Scatter builds the brushable scatter chart. The sex pie and the age histogram
// describe the brushed subset.
func Scatter(records []record.Record, opts ScatterOptions) aggregate.ScatterView {
	xScale, yScale := opts.Scales(records)
	selected := BrushSelect(records, opts.XField, opts.YField, xScale, yScale, opts.Brush)

	points := make([]aggregate.Point, len(records))
	for i, r := range records {
		points[i] = aggregate.Point{X: opts.XField.Value(r), Y: opts.YField.Value(r), Severity: r.DiagnosisSeverity}
	}

	view := aggregate.ScatterView{
		XField:          opts.XField,
		YField:          opts.YField,
		Points:          points,
		Selected:        len(selected),
		SexDistribution: []aggregate.Slice{},
		AgeDistribution: make([]aggregate.CountBucket, 0, len(ScatterAgeEdges)-1),
	}
	for _, g := range GroupBy(selected, func(r record.Record) record.Sex { return r.Sex }) {
		view.SexDistribution = append(view.SexDistribution, aggregate.Slice{
			Label:   g.Key.Label(),
			Count:   g.Count(),
			Percent: percent(g.Count(), len(selected)),
		})
	}
	for _, g := range GroupByBins(selected, record.FieldAge, HalfOpenBins(ScatterAgeEdges...)) {
		view.AgeDistribution = append(view.AgeDistribution, aggregate.CountBucket{Range: g.Key, Count: g.Count()})
	}
	return view
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

// Patterns builds the age and sex patterns page. Decade means use the sex-filtered
// subset; risk factors always count the full input.
func Patterns(records []record.Record, sex filter.SexFilter) aggregate.PatternsView {
	subset := Filter(records, sex.Matches)
	byDecade := make(map[int][]record.Record)
	for _, r := range subset {
		d := AgeDecadeStart(r.Age)
		byDecade[d] = append(byDecade[d], r)
	}

	view := aggregate.PatternsView{Sex: string(sex)}
	for _, d := range PatternDecades {
		members := byDecade[d]
		label := AgeDecade(float64(d))
		view.AvgCholByAge = append(view.AvgCholByAge, aggregate.Bucket{
			Key:   label,
			Count: len(members),
			Means: map[string]aggregate.Stat{string(record.FieldCholesterol): Mean(members, record.FieldCholesterol)},
		})
		view.SeverityByAgeAndSex = append(view.SeverityByAgeAndSex, aggregate.AgeSexSeverity{
			AgeGroup: label,
			Male:     Mean(Filter(members, filter.SexMale.Matches), record.FieldSeverity),
			Female:   Mean(Filter(members, filter.SexFemale.Matches), record.FieldSeverity),
		})
	}
	view.RiskFactors = RiskFactors(records)
	return view
}

// RiskFactors tallies the four risk flags over records
func RiskFactors(records []record.Record) []aggregate.RiskFactor {
	return []aggregate.RiskFactor{
		{Key: "fbs", Factor: "Fasting Blood Sugar > 120", Count: CountBy(records, func(r record.Record) bool { return r.FastingBloodSugarHigh })},
		{Key: "exang", Factor: "Exercise-induced Angina", Count: CountBy(records, func(r record.Record) bool { return r.ExerciseAngina })},
		{Key: "cp4", Factor: "Chest Pain Type 4", Count: CountBy(records, func(r record.Record) bool { return r.ChestPainType == record.Asymptomatic })},
		{Key: "chol240", Factor: "Cholesterol > 240", Count: CountBy(records, func(r record.Record) bool { return r.Cholesterol > CholesterolThreshold })},
	}
}

// Comparison summarizes one named source: chest pain counts by ascending type and
// age bins with mean cholesterol.
func Comparison(source string, records []record.Record) aggregate.ComparisonView {
	view := aggregate.ComparisonView{Source: source, TotalCount: len(records)}
	for _, cp := range record.ChestPainTypes {
		view.ChestPain = append(view.ChestPain, aggregate.ChestPainCount{
			ChestPainType: cp,
			Label:         cp.Label(),
			Count:         CountBy(records, func(r record.Record) bool { return r.ChestPainType == cp }),
		})
	}
	for _, g := range GroupByBins(records, record.FieldAge, HalfOpenBins(ComparisonAgeEdges...)) {
		view.AgeStats = append(view.AgeStats, aggregate.Bucket{
			Key:   g.Key,
			Count: g.Count(),
			Means: map[string]aggregate.Stat{string(record.FieldCholesterol): Mean(g.Members, record.FieldCholesterol)},
		})
	}
	return view
}

// Categorical builds one (max heart-rate, severity) series per selected chest pain
// type over the records whose age is inside the closed slider range.
func Categorical(records []record.Record, age filter.Interval, types []record.ChestPainType) aggregate.CategoricalView {
	age.Bounds = filter.Closed
	inRange := FilterByInterval(records, record.FieldAge, age)

	selected := slices.Clone(types)
	slices.Sort(selected)
	selected = slices.Compact(selected)

	view := aggregate.CategoricalView{AgeMin: age.Low, AgeMax: age.High, Series: []aggregate.ChestPainSeries{}}
	for _, cp := range selected {
		members := Filter(inRange, func(r record.Record) bool { return r.ChestPainType == cp })
		sort.SliceStable(members, func(i, j int) bool { return members[i].MaxHeartRate < members[j].MaxHeartRate })

		points := make([]aggregate.SeriesPoint, len(members))
		for i, r := range members {
			points[i] = aggregate.SeriesPoint{MaxHeartRate: r.MaxHeartRate, Severity: r.DiagnosisSeverity}
		}
		view.Series = append(view.Series, aggregate.ChestPainSeries{ChestPainType: cp, Label: cp.Label(), Points: points})
	}
	return view
}
