// Package report renders a dataset summary as Markdown and HTML.
package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"cardiodash/adapters/stats/senses"
	"cardiodash/domain/dataset"
	"cardiodash/domain/record"
	"cardiodash/internal/analysis"
)

// Title heads every report
const Title = "Heart Disease Dataset Report"

// Markdown summarizes the dataset: origin, ingest counts, rejection reasons,
// field descriptions, chest pain counts, risk factors and disease associations.
func Markdown(ds *dataset.Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)

	if ds.IsEmpty() {
		b.WriteString("_No data loaded._\n")
		return b.String()
	}

	origin := ds.Origin()
	report := ds.Report()
	records := ds.Records()

	b.WriteString("## Source\n\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", origin.Name)
	fmt.Fprintf(&b, "- **Kind:** %s (%s)\n", origin.Kind, origin.Format)
	if !ds.Fingerprint().IsEmpty() {
		fmt.Fprintf(&b, "- **Fingerprint:** `%s`\n", ds.Fingerprint().Short())
	}
	fmt.Fprintf(&b, "- **Loaded:** %s\n\n", ds.LoadedAt().Time().UTC().Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Ingestion\n\n")
	fmt.Fprintf(&b, "| Rows | Accepted | Rejected | Header skipped |\n|---:|---:|---:|:---:|\n| %d | %d | %d | %s |\n\n",
		report.TotalRows, report.Accepted, report.Rejected, yesNo(report.HeaderSkipped))

	if len(report.RejectedByReason) > 0 {
		reasons := make([]string, 0, len(report.RejectedByReason))
		for r := range report.RejectedByReason {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		b.WriteString("| Reject reason | Rows |\n|---|---:|\n")
		for _, r := range reasons {
			fmt.Fprintf(&b, "| %s | %d |\n", r, report.RejectedByReason[dataset.RejectReason(r)])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Fields\n\n")
	b.WriteString("| Field | Count | Mean | Std dev | Min | Q25 | Median | Q75 | Max |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, s := range analysis.Describe(records) {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			s.Field, s.Count, s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max)
	}
	b.WriteString("\n")

	b.WriteString("## Chest pain\n\n| Type | Label | Patients |\n|---:|---|---:|\n")
	for _, c := range analysis.Comparison(origin.Name, records).ChestPain {
		fmt.Fprintf(&b, "| %g | %s | %d |\n", c.ChestPainType, c.Label, c.Count)
	}
	b.WriteString("\n")

	b.WriteString("## Risk factors\n\n| Factor | Patients |\n|---|---:|\n")
	for _, rf := range analysis.RiskFactors(records) {
		fmt.Fprintf(&b, "| %s | %d |\n", rf.Factor, rf.Count)
	}
	b.WriteString("\n")

	writeAssociations(&b, records)
	return b.String()
}

// writeAssociations lists the significant sense results, strongest first
func writeAssociations(b *strings.Builder, records []record.Record) {
	results, err := senses.NewSenseEngine().AnalyzeAll(context.Background(), records)
	if err != nil {
		return
	}
	significant := make([]senses.Result, 0, len(results))
	for _, r := range results {
		if r.Significant() {
			significant = append(significant, r)
		}
	}
	sort.SliceStable(significant, func(i, j int) bool {
		return math.Abs(significant[i].EffectSize) > math.Abs(significant[j].EffectSize)
	})

	b.WriteString("## Disease associations\n\n")
	if len(significant) == 0 {
		b.WriteString("_No significant associations._\n")
		return
	}
	b.WriteString("| Field | Test | Effect | p | Signal |\n|---|---|---:|---:|---|\n")
	for _, r := range significant {
		fmt.Fprintf(b, "| %s | %s | %.3f | %.4f | %s |\n", r.Field, r.SenseName, r.EffectSize, r.PValue, r.Signal)
	}
}

// ToHTML converts Markdown to an HTML fragment
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// HTML renders the dataset report as a standalone page
func HTML(ds *dataset.Dataset) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(Title)
	b.WriteString("</title></head><body>\n")
	b.Write(ToHTML(Markdown(ds)))
	b.WriteString("</body></html>\n")
	return []byte(b.String())
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
