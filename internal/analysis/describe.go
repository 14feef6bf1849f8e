package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"cardiodash/domain/aggregate"
	"cardiodash/domain/record"
)

// DescribedFields are the continuous or ordinal fields worth summarizing
var DescribedFields = []record.Field{
	record.FieldAge,
	record.FieldRestingBP,
	record.FieldCholesterol,
	record.FieldMaxHeartRate,
	record.FieldSTDepression,
	record.FieldVessels,
	record.FieldSeverity,
}

// Describe summarizes every described field
func Describe(records []record.Record) []aggregate.FieldSummary {
	out := make([]aggregate.FieldSummary, 0, len(DescribedFields))
	for _, f := range DescribedFields {
		out = append(out, DescribeField(records, f))
	}
	return out
}

// DescribeField computes count, mean, sample std-dev, min, quartiles and max.
// Every statistic is N/A for no records; std-dev needs at least two.
func DescribeField(records []record.Record, field record.Field) aggregate.FieldSummary {
	summary := aggregate.FieldSummary{
		Field:  field,
		Count:  len(records),
		Mean:   aggregate.NA(),
		StdDev: aggregate.NA(),
		Min:    aggregate.NA(),
		Q25:    aggregate.NA(),
		Median: aggregate.NA(),
		Q75:    aggregate.NA(),
		Max:    aggregate.NA(),
	}
	if len(records) == 0 {
		return summary
	}

	data := Values(records, field)
	sort.Float64s(data)

	mean, std := stat.MeanStdDev(data, nil)
	summary.Mean = aggregate.Value(mean)
	if len(data) > 1 {
		summary.StdDev = aggregate.Value(std)
	}
	summary.Min = aggregate.Value(floats.Min(data))
	summary.Max = aggregate.Value(floats.Max(data))
	summary.Q25 = aggregate.Value(stat.Quantile(0.25, stat.Empirical, data, nil))
	summary.Q75 = aggregate.Value(stat.Quantile(0.75, stat.Empirical, data, nil))
	if median, err := stats.Median(data); err == nil {
		summary.Median = aggregate.Value(median)
	}
	return summary
}
