package excel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\uFEFF"

// DataReader reads rows from a CSV or XLSX file on disk
type DataReader struct {
	filePath string
	format   Format
}

// NewDataReader picks the format from the file extension
func NewDataReader(filePath string) *DataReader {
	return &DataReader{filePath: filePath, format: DetectFormat(filePath)}
}

// DetectFormat maps .xlsx to FormatXLSX and everything else to FormatCSV
func DetectFormat(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Format returns the detected format
func (r *DataReader) Format() Format {
	return r.format
}

// ReadBytes returns the raw file content
func (r *DataReader) ReadBytes() ([]byte, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", r.format, r.filePath, err)
	}
	return data, nil
}

// ReadRows reads the file into rows
func (r *DataReader) ReadRows() ([]Row, error) {
	data, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	if r.format == FormatXLSX {
		return ReadWorkbook(bytes.NewReader(data))
	}
	return SplitText(string(data)), nil
}

// SplitText splits CSV text on newlines, then on commas. Quoted fields are not
// interpreted. Blank lines are skipped; a leading BOM and trailing CR are dropped.
func SplitText(text string) []Row {
	text = strings.TrimPrefix(text, utf8BOM)

	var rows []Row
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, Row{Line: i + 1, Cells: strings.Split(line, ",")})
	}
	return rows
}

// ReadWorkbook reads the first sheet of an XLSX workbook into rows
func ReadWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var rows []Row
	for i, cells := range raw {
		if isBlank(cells) {
			continue
		}
		rows = append(rows, Row{Line: i + 1, Cells: cells})
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
