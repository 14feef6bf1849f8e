package excel

// Row is one non-empty input line split into raw cells
type Row struct {
	Line  int      // 1-based position in the source
	Cells []string // untrimmed cell text
}

// Format names the container a file was read from
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)
