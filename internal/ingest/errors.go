package ingest

import (
	"fmt"

	"cardiodash/domain/core"
	"cardiodash/domain/dataset"
)

// ParseFailure names why a whole input was refused
type ParseFailure string

const (
	FailureNotUTF8    ParseFailure = "not_utf8"
	FailureNoRows     ParseFailure = "no_rows"
	FailureReadFailed ParseFailure = "read_failed"
)

// ParseError reports input that produced no Dataset
type ParseError struct {
	Reason   ParseFailure
	Rows     int // data rows seen
	Rejected int
	Err      error // underlying read error, if any
}

func (e *ParseError) Error() string {
	switch e.Reason {
	case FailureNoRows:
		return fmt.Sprintf("%v: no rows accepted (%d seen, %d rejected)", core.ErrParse, e.Rows, e.Rejected)
	case FailureReadFailed:
		return fmt.Sprintf("%v: %v", core.ErrParse, e.Err)
	default:
		return fmt.Sprintf("%v: %s", core.ErrParse, e.Reason)
	}
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{core.ErrParse, e.Err}
	}
	return []error{core.ErrParse}
}

// RowRejected describes one excluded row. Rejections are tallied in the
// IngestReport and logged, never returned from Ingest.
type RowRejected struct {
	Line   int
	Reason dataset.RejectReason
	Detail string
}

func (e *RowRejected) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at line %d: %s", core.ErrRowRejected, e.Line, e.Reason)
	}
	return fmt.Sprintf("%v at line %d: %s (%s)", core.ErrRowRejected, e.Line, e.Reason, e.Detail)
}

func (e *RowRejected) Unwrap() error {
	return core.ErrRowRejected
}
