// Package output provides tab-delimited and JSON result formatters.
package output

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// TabWriter writes rows in tab-delimited format. Empty cells are written
// as "-".
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer with the given columns.
func NewTabWriter(w io.Writer, columns ...string) *TabWriter {
	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: columns,
	}
}

// Columns returns the header columns.
func (tw *TabWriter) Columns() []string {
	return tw.columns
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// WriteRow writes one row. Tabs and newlines inside values are replaced by
// spaces.
func (tw *TabWriter) WriteRow(values ...string) error {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = cell(v)
	}
	_, err := tw.w.WriteString(strings.Join(cells, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

var cellCleaner = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return cellCleaner.Replace(s)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

func joinInts(ns []int, sep string) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = itoa(n)
	}
	return strings.Join(parts, sep)
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
