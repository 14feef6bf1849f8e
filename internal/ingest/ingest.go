// Package ingest turns raw heart-disease CSV text or workbooks into an
// immutable Dataset. Rows that do not fit the 14-column schema are dropped and
// counted; the caller only sees an error when nothing usable remains.
package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"cardiodash/adapters/datareadiness/coercer"
	"cardiodash/adapters/excel"
	"cardiodash/domain/core"
	"cardiodash/domain/dataset"
	"cardiodash/domain/record"
	"cardiodash/internal"
)

// Mode selects the row width rule
type Mode int

const (
	// ModeRemote accepts rows with at least the schema width; extra cells are ignored
	ModeRemote Mode = iota
	// ModeUpload requires exactly the schema width
	ModeUpload
)

func (m Mode) String() string {
	if m == ModeUpload {
		return "upload"
	}
	return "remote"
}

// ParseMode maps "remote" and "upload"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "remote", "":
		return ModeRemote, nil
	case "upload":
		return ModeUpload, nil
	default:
		return ModeRemote, fmt.Errorf("unknown ingest mode %q", s)
	}
}

// Options controls one ingest call
type Options struct {
	Mode   Mode
	Origin dataset.Origin
}

// Processor converts raw rows to Records
type Processor struct {
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewProcessor creates a processor with the default "?" missing sentinel
func NewProcessor(logger *internal.Logger) *Processor {
	return NewProcessorWithConfig(logger, coercer.DefaultCoercionConfig())
}

// NewProcessorWithConfig creates a processor with custom coercion rules
func NewProcessorWithConfig(logger *internal.Logger, config coercer.CoercionConfig) *Processor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Processor{
		coercer: coercer.NewTypeCoercer(config),
		logger:  logger,
	}
}

var defaultProcessor = NewProcessor(internal.NewNopLogger())

// Ingest parses CSV text with a silent processor
func Ingest(raw []byte, opts Options) (*dataset.Dataset, error) {
	return defaultProcessor.Ingest(raw, opts)
}

// Ingest parses CSV text into a Dataset
func (p *Processor) Ingest(raw []byte, opts Options) (*dataset.Dataset, error) {
	if !utf8.Valid(raw) {
		return nil, &ParseError{Reason: FailureNotUTF8}
	}
	return p.IngestRows(excel.SplitText(string(raw)), core.NewHash(raw), opts)
}

// IngestWorkbook parses the first sheet of an XLSX workbook into a Dataset
func (p *Processor) IngestWorkbook(raw []byte, opts Options) (*dataset.Dataset, error) {
	rows, err := excel.ReadWorkbook(bytes.NewReader(raw))
	if err != nil {
		return nil, &ParseError{Reason: FailureReadFailed, Err: err}
	}
	for _, row := range rows {
		for _, cell := range row.Cells {
			if !utf8.ValidString(cell) {
				return nil, &ParseError{Reason: FailureNotUTF8}
			}
		}
	}
	return p.IngestRows(rows, core.NewHash(raw), opts)
}

// IngestFormat dispatches on the container format
func (p *Processor) IngestFormat(raw []byte, format excel.Format, opts Options) (*dataset.Dataset, error) {
	if format == excel.FormatXLSX {
		return p.IngestWorkbook(raw, opts)
	}
	return p.Ingest(raw, opts)
}

// IngestRows admits already split rows. A first row spelling the column keys is
// skipped as a header.
func (p *Processor) IngestRows(rows []excel.Row, fingerprint core.Hash, opts Options) (*dataset.Dataset, error) {
	report := dataset.IngestReport{RejectedByReason: map[dataset.RejectReason]int{}}

	if len(rows) > 0 && record.IsHeader(rows[0].Cells) {
		report.HeaderSkipped = true
		rows = rows[1:]
	}

	records := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		report.TotalRows++
		rec, rejected := p.Admit(row, opts.Mode)
		if rejected != nil {
			report.Rejected++
			report.RejectedByReason[rejected.Reason]++
			p.logger.Debug("%v", rejected)
			continue
		}
		records = append(records, rec)
	}
	report.Accepted = len(records)

	if report.Accepted == 0 {
		p.logger.Warn("Ingest of %q produced no rows (%d seen, %d rejected)", opts.Origin.Name, report.TotalRows, report.Rejected)
		return nil, &ParseError{Reason: FailureNoRows, Rows: report.TotalRows, Rejected: report.Rejected}
	}

	p.logger.Info("Ingested %q: %d accepted, %d rejected", opts.Origin.Name, report.Accepted, report.Rejected)
	return dataset.New(opts.Origin, fingerprint, records, report), nil
}

// Admit applies the width and missing-value rules to one row. Any fully
// numeric row of sufficient width is kept.
func (p *Processor) Admit(row excel.Row, mode Mode) (record.Record, *RowRejected) {
	width := len(row.Cells)
	if width < record.ColumnCount || (mode == ModeUpload && width != record.ColumnCount) {
		return record.Record{}, &RowRejected{
			Line:   row.Line,
			Reason: dataset.RejectWrongWidth,
			Detail: fmt.Sprintf("%d columns, want %d", width, record.ColumnCount),
		}
	}

	values, state := p.coercer.CoerceRow(row.Cells, record.ColumnCount)
	switch state {
	case coercer.CellMissing:
		return record.Record{}, &RowRejected{Line: row.Line, Reason: dataset.RejectMissingValue}
	case coercer.CellInvalid:
		return record.Record{}, &RowRejected{Line: row.Line, Reason: dataset.RejectNonNumeric}
	}

	rec, err := record.New(values)
	if err != nil {
		return record.Record{}, &RowRejected{Line: row.Line, Reason: dataset.RejectWrongWidth, Detail: err.Error()}
	}
	return rec, nil
}
