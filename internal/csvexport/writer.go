package csvexport

import (
	"encoding/csv"
	"io"

	"scanform/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// headers lists the CSV column names in AllFieldKeys order.
var headers = func() []string {
	out := make([]string, len(domain.AllFieldKeys))
	for i, k := range domain.AllFieldKeys {
		out[i] = string(k)
	}
	return out
}()

// Writer wraps csv.Writer for exporting a form record as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the twelve-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(headers)
}

// WriteRecord writes the record's values as one row, in header order.
func (w *Writer) WriteRecord(record domain.FormRecord) error {
	row := make([]string, len(domain.AllFieldKeys))
	for i, k := range domain.AllFieldKeys {
		row[i] = record[k]
	}
	return w.csv.Write(row)
}

// Flush flushes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
