package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiodash/adapters/excel"
	"cardiodash/domain/core"
	"cardiodash/domain/dataset"
	"cardiodash/domain/record"
	"cardiodash/internal"
	"cardiodash/internal/testkit"
)

const (
	rowA = "63,1,1,145,233,1,2,150,0,2.3,3,0,6,0"
	rowB = "67,1,4,160,286,0,2,108,1,1.5,2,3,3,2"
)

var cleveland = dataset.SourceOrigin("Cleveland")

func lines(rows ...string) []byte {
	return []byte(strings.Join(rows, "\n") + "\n")
}

func TestIngest_TwoRecords(t *testing.T) {
	ds, err := Ingest(lines(rowA, rowB), Options{Origin: cleveland})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	recs := ds.Records()
	assert.Equal(t, record.Severity(0), recs[0].DiagnosisSeverity)
	assert.Equal(t, record.Severity(2), recs[1].DiagnosisSeverity)
	assert.Equal(t, 63.0, recs[0].Age)
	assert.True(t, recs[0].FastingBloodSugarHigh)
	assert.Equal(t, 2.3, recs[0].STDepression)
	assert.Equal(t, record.ThalFixed, recs[0].Thalassemia)
	assert.Equal(t, 3.0, recs[1].NumVesselsColored)

	report := ds.Report()
	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 2, report.Accepted)
	assert.Zero(t, report.Rejected)
	assert.Equal(t, cleveland, ds.Origin())
}

func TestIngest_DropsMissingAndShortRows(t *testing.T) {
	raw := lines(
		rowA,
		"67,1,4,160,286,0,2,108,1,1.5,2,?,3,2",
		"67,1,4,160,,0,2,108,1,1.5,2,3,3,2",
		"67,1,4,160,286,0,2,108,1,1.5,2,3,3",
		"67,1,4,160,abc,0,2,108,1,1.5,2,3,3,2",
		"67,1,4,160,286,0,2,108,1,1.5,2,3,5,2",
		rowB,
	)
	ds, err := Ingest(raw, Options{Origin: cleveland})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len(), "thal=5 is numeric and stays")

	report := ds.Report()
	assert.Equal(t, 7, report.TotalRows)
	assert.Equal(t, 4, report.Rejected)
	assert.Equal(t, map[dataset.RejectReason]int{
		dataset.RejectMissingValue: 2,
		dataset.RejectWrongWidth:   1,
		dataset.RejectNonNumeric:   1,
	}, report.RejectedByReason)
}

func TestIngest_AdmitsOutOfSetCodes(t *testing.T) {
	raw := lines(
		rowA,
		"63,2,1,145,233,1,2,150,0,2.3,3,0,6,0",
		"63,1,1,145,233,1,2,150,0,2.3,0,0,6,0",
		"63,1,1,145,233,1,2,150,0,2.3,3,0,5,0",
		"63,1,1,145,233,1,2,150,0,2.3,3,0.5,6,0",
	)
	ds, err := Ingest(raw, Options{Origin: cleveland, Mode: ModeRemote})
	require.NoError(t, err)

	report := ds.Report()
	assert.Equal(t, 5, report.Accepted)
	assert.Zero(t, report.Rejected)
	assert.Empty(t, report.RejectedByReason)

	recs := ds.Records()
	assert.Equal(t, record.Sex(2), recs[1].Sex)
	assert.Equal(t, record.STSlope(0), recs[2].STSlope)
	assert.Equal(t, record.Thalassemia(5), recs[3].Thalassemia)
	assert.Equal(t, 0.5, recs[4].NumVesselsColored)
}

func TestIngest_WidthRulesByMode(t *testing.T) {
	wide := rowA + ",extra"

	ds, err := Ingest(lines(wide, rowB), Options{Mode: ModeRemote})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len(), "remote files may carry trailing columns")

	ds, err = Ingest(lines(wide, rowB), Options{Mode: ModeUpload})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 1, ds.Report().RejectedByReason[dataset.RejectWrongWidth])
}

func TestIngest_Idempotent(t *testing.T) {
	raw := lines(rowA, "1,2,?", rowB)

	first, err := Ingest(raw, Options{Origin: cleveland})
	require.NoError(t, err)
	second, err := Ingest(raw, Options{Origin: cleveland})
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Records(), second.Records())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestIngest_HeaderSkipped(t *testing.T) {
	header := "age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,num"
	ds, err := Ingest(lines(header, rowA), Options{Mode: ModeUpload})
	require.NoError(t, err)

	report := ds.Report()
	assert.True(t, report.HeaderSkipped)
	assert.Equal(t, 1, report.TotalRows)
	assert.Zero(t, report.Rejected)
}

func TestIngest_CRLFAndBlankLines(t *testing.T) {
	raw := []byte("\uFEFF" + rowA + "\r\n\r\n   \r\n" + rowB + "\r\n")
	ds, err := Ingest(raw, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 2, ds.Report().TotalRows)
}

func TestIngest_ParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		raw    []byte
		reason ParseFailure
	}{
		{"empty input", nil, FailureNoRows},
		{"only blank lines", []byte("\n\n  \n"), FailureNoRows},
		{"all rows rejected", lines("?,?,?", "1,2,3"), FailureNoRows},
		{"not utf8", []byte{0xff, 0xfe, 0x00, 0x41}, FailureNotUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Ingest(tt.raw, Options{})
			assert.Nil(t, ds)
			require.Error(t, err)
			assert.True(t, core.IsParseError(err))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.reason, pe.Reason)
		})
	}
}

func TestIngestWorkbook(t *testing.T) {
	var buf bytes.Buffer
	cells := func(s string) []string { return strings.Split(s, ",") }
	header := make([]string, 0, record.ColumnCount)
	for _, col := range record.Columns() {
		header = append(header, col.Key)
	}
	require.NoError(t, excel.WriteWorkbook(&buf, header, [][]string{cells(rowA), cells(rowB)}))

	p := NewProcessor(internal.NewNopLogger())
	ds, err := p.IngestFormat(buf.Bytes(), excel.FormatXLSX, Options{Mode: ModeUpload, Origin: dataset.UploadOrigin("heart.xlsx", "xlsx")})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.True(t, ds.Report().HeaderSkipped)
	assert.Equal(t, 2.3, ds.Records()[0].STDepression)

	_, err = p.IngestWorkbook([]byte("plain text"), Options{})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FailureReadFailed, pe.Reason)
}

func TestAdmit_Reasons(t *testing.T) {
	p := NewProcessor(internal.NewNopLogger())

	_, rej := p.Admit(excel.Row{Line: 4, Cells: strings.Split(rowA, ",")}, ModeUpload)
	assert.Nil(t, rej)

	_, rej = p.Admit(excel.Row{Line: 9, Cells: []string{"1"}}, ModeRemote)
	require.NotNil(t, rej)
	assert.Equal(t, 9, rej.Line)
	assert.Equal(t, dataset.RejectWrongWidth, rej.Reason)
	assert.ErrorIs(t, rej, core.ErrRowRejected)
	assert.Contains(t, rej.Error(), "line 9")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("upload")
	require.NoError(t, err)
	assert.Equal(t, ModeUpload, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeRemote, m)

	_, err = ParseMode("stream")
	assert.Error(t, err)
}

func TestIngest_GeneratedPopulations(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		cfg := testkit.DefaultHeartConfig()
		cfg.Seed = seed
		cfg.MissingRate = 0.15
		cfg.MalformedRate = 0.05
		cfg.IncludeHeader = seed%2 == 0
		data := testkit.NewHeartDataGenerator(cfg).Generate()

		ds, err := Ingest(data.CSV(), Options{Mode: ModeUpload})
		require.NoError(t, err)

		report := ds.Report()
		assert.Equal(t, data.Valid, ds.Len(), "seed %d", seed)
		assert.Equal(t, len(data.Rows), report.TotalRows)
		assert.Equal(t, data.Missing, report.RejectedByReason[dataset.RejectMissingValue])
		assert.Equal(t, data.Malformed, report.RejectedByReason[dataset.RejectWrongWidth])
		assert.Equal(t, cfg.IncludeHeader, report.HeaderSkipped)
	}
}
