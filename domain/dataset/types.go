package dataset

import (
	"encoding/json"
	"slices"

	"cardiodash/domain/core"
	"cardiodash/domain/record"
)

// OriginKind distinguishes user uploads from named catalog sources
type OriginKind string

const (
	OriginUpload OriginKind = "upload"
	OriginSource OriginKind = "source"
)

// Origin identifies the single CSV origin a Dataset was built from
type Origin struct {
	Kind   OriginKind `json:"kind"`
	Name   string     `json:"name"`   // file name for uploads, catalog name for sources
	Format string     `json:"format"` // "csv" or "xlsx"
}

// UploadOrigin describes a user supplied file
func UploadOrigin(filename, format string) Origin {
	return Origin{Kind: OriginUpload, Name: filename, Format: format}
}

// SourceOrigin describes a named catalog source
func SourceOrigin(name core.SourceName) Origin {
	return Origin{Kind: OriginSource, Name: name.String(), Format: "csv"}
}

// RejectReason classifies why a row was excluded
type RejectReason string

const (
	RejectWrongWidth   RejectReason = "wrong_width"
	RejectMissingValue RejectReason = "missing_value"
	RejectNonNumeric   RejectReason = "non_numeric"
)

// IngestReport summarizes row admission for one ingest
type IngestReport struct {
	TotalRows        int                  `json:"total_rows"`
	Accepted         int                  `json:"accepted"`
	Rejected         int                  `json:"rejected"`
	RejectedByReason map[RejectReason]int `json:"rejected_by_reason"`
	HeaderSkipped    bool                 `json:"header_skipped"`
}

// Dataset is an ordered, immutable sequence of Records from one origin.
// It is replaced wholesale, never mutated.
type Dataset struct {
	id          core.DatasetID
	origin      Origin
	fingerprint core.Hash
	loadedAt    core.Timestamp
	report      IngestReport
	records     []record.Record
}

// New creates a Dataset owning a private copy of records
func New(origin Origin, fingerprint core.Hash, records []record.Record, report IngestReport) *Dataset {
	if report.RejectedByReason == nil {
		report.RejectedByReason = map[RejectReason]int{}
	} else {
		report.RejectedByReason = cloneReasons(report.RejectedByReason)
	}
	return &Dataset{
		id:          core.NewDatasetID(),
		origin:      origin,
		fingerprint: fingerprint,
		loadedAt:    core.Now(),
		report:      report,
		records:     slices.Clone(records),
	}
}

// Empty is the cleared state
func Empty() *Dataset {
	return &Dataset{report: IngestReport{RejectedByReason: map[RejectReason]int{}}}
}

func (d *Dataset) ID() core.DatasetID {
	if d == nil {
		return ""
	}
	return d.id
}

func (d *Dataset) Origin() Origin {
	if d == nil {
		return Origin{}
	}
	return d.origin
}

func (d *Dataset) Fingerprint() core.Hash {
	if d == nil {
		return ""
	}
	return d.fingerprint
}

func (d *Dataset) LoadedAt() core.Timestamp {
	if d == nil {
		return core.Timestamp{}
	}
	return d.loadedAt
}

// Report returns a copy of the ingest report
func (d *Dataset) Report() IngestReport {
	if d == nil {
		return IngestReport{RejectedByReason: map[RejectReason]int{}}
	}
	r := d.report
	r.RejectedByReason = cloneReasons(d.report.RejectedByReason)
	return r
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// IsEmpty reports whether the dataset holds no records
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// Records returns a copy of the records in input order
func (d *Dataset) Records() []record.Record {
	if d == nil {
		return nil
	}
	return slices.Clone(d.records)
}

// Equal compares content and order, ignoring identity and load time
func (d *Dataset) Equal(other *Dataset) bool {
	if d.Len() != other.Len() {
		return false
	}
	if d.Len() == 0 {
		return true
	}
	return d.origin == other.origin && slices.Equal(d.records, other.records)
}

type datasetJSON struct {
	ID          core.DatasetID  `json:"id"`
	Origin      Origin          `json:"origin"`
	Fingerprint core.Hash       `json:"fingerprint"`
	LoadedAt    *core.Timestamp `json:"loaded_at,omitempty"`
	Report      IngestReport    `json:"report"`
	Empty       bool            `json:"empty"`
	Records     []record.Record `json:"records"`
}

// MarshalJSON exposes the dataset to the chart layer as plain data
func (d *Dataset) MarshalJSON() ([]byte, error) {
	out := datasetJSON{
		ID:          d.ID(),
		Origin:      d.Origin(),
		Fingerprint: d.Fingerprint(),
		Report:      d.Report(),
		Empty:       d.IsEmpty(),
		Records:     d.Records(),
	}
	if out.Records == nil {
		out.Records = []record.Record{}
	}
	if t := d.LoadedAt(); !t.IsZero() {
		out.LoadedAt = &t
	}
	return json.Marshal(out)
}

func cloneReasons(m map[RejectReason]int) map[RejectReason]int {
	out := make(map[RejectReason]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
