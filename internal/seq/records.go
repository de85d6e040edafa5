package seq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownFormat is returned when a record format name is not recognized.
var ErrUnknownFormat = errors.New("unknown sequence format")

// Record is a named sequence, as read from a FASTA or TSV input.
type Record struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Sequence    string `json:"sequence"`
}

// Format identifies a record exchange format.
type Format int

const (
	FormatFASTA Format = iota
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatTSV:
		return "tsv"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name or file extension ("fasta", "fa", "tsv",
// "tab", "txt") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fasta", "fa", "fna", "fas", "ffn":
		return FormatFASTA, nil
	case "tsv", "tab", "txt":
		return FormatTSV, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ParseText parses free text as multi-record FASTA. Lines starting with '>'
// open a new record; following lines are cleaned and concatenated into it.
// Text before the first header becomes a record named "seq1". Records with
// an empty header are named by their position ("seq2", "seq3", ...).
func ParseText(text string) []Record {
	var records []Record
	var cur *Record
	var body strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Sequence = body.String()
		records = append(records, *cur)
		body.Reset()
		cur = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			flush()
			name, desc := parseHeader(line)
			if name == "" {
				name = fmt.Sprintf("seq%d", len(records)+1)
			}
			cur = &Record{Name: name, Description: desc}
			continue
		}
		cleaned := Clean(line)
		if cleaned == "" {
			continue
		}
		if cur == nil {
			cur = &Record{Name: fmt.Sprintf("seq%d", len(records)+1)}
		}
		body.WriteString(cleaned)
	}
	flush()

	return records
}

// parseHeader splits a FASTA header line into name and description.
func parseHeader(line string) (name, desc string) {
	line = strings.TrimSpace(strings.TrimPrefix(line, ">"))
	if idx := strings.IndexAny(line, " \t"); idx != -1 {
		return line[:idx], strings.TrimSpace(line[idx+1:])
	}
	return line, ""
}

// ParseTSV parses "name<TAB>sequence" lines. Blank lines and lines starting
// with '#' are skipped; a line without a tab is treated as a bare sequence.
// The name field is split like a FASTA header: the first word is the name
// and the rest is the description. A tab followed by nothing is a named
// record with an empty sequence.
func ParseTSV(text string) []Record {
	var records []Record
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		field, sequence, ok := strings.Cut(line, "\t")
		if !ok {
			field, sequence = "", line
		}
		name, desc := parseHeader(field)
		if name == "" {
			name = fmt.Sprintf("seq%d", len(records)+1)
		}
		records = append(records, Record{Name: name, Description: desc, Sequence: Clean(sequence)})
	}
	return records
}

// Parse parses text in the given format.
func Parse(text string, f Format) []Record {
	if f == FormatTSV {
		return ParseTSV(text)
	}
	return ParseText(text)
}

// WriteTSV writes records as "name<TAB>sequence" lines. A description
// follows the name after a space, as in a FASTA header.
func WriteTSV(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		field := r.Name
		if r.Description != "" {
			field += " " + r.Description
		}
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", field, r.Sequence); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write writes records in the given format. width applies to FASTA only.
func Write(w io.Writer, records []Record, f Format, width int) error {
	if f == FormatTSV {
		return WriteTSV(w, records)
	}
	return WriteFASTA(w, records, width)
}
