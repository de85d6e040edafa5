// Package barcode checks sets of sample index sequences for conflicts that
// cause cross-contamination or misassignment during demultiplexing.
package barcode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pzweuj/biotools-sub000/internal/seq"
)

const (
	DefaultMaxEntries      = 200
	DefaultSimilarDistance = 2
)

// Entry is one row of an index sheet.
type Entry struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Index1 string `json:"index1"`
	Index2 string `json:"index2,omitempty"`
}

// Severity orders issues; errors sort first.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Kind is the conflict type.
type Kind int

const (
	Duplicate Kind = iota
	ReverseComplement
	Reverse
	Similar
	TooMany
)

var kindNames = [...]string{"duplicate", "reverse-complement", "reverse", "similar", "too-many"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Severity returns the fixed severity of a conflict kind.
func (k Kind) Severity() Severity {
	switch k {
	case Reverse, Similar:
		return Warning
	}
	return Error
}

// Slot is the index position an issue concerns.
type Slot int

const (
	Index1 Slot = iota + 1
	Index2
)

func (s Slot) String() string {
	switch s {
	case Index1:
		return "index1"
	case Index2:
		return "index2"
	}
	return ""
}

func (s Slot) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Issue is one detected conflict between two entries. TooMany issues have
// no slot, rows or sequences.
type Issue struct {
	Severity  Severity `json:"severity"`
	Kind      Kind     `json:"kind"`
	Slot      Slot     `json:"slot,omitempty"`
	Rows      []int    `json:"rows,omitempty"`
	Names     []string `json:"names,omitempty"`
	Sequences []string `json:"sequences,omitempty"`
	Distance  int      `json:"distance,omitempty"`
	Message   string   `json:"message"`
}

// Params bounds the check.
type Params struct {
	MaxEntries      int // zero means DefaultMaxEntries
	SimilarDistance int // zero means DefaultSimilarDistance
}

// DefaultParams returns the default limits.
func DefaultParams() Params {
	return Params{MaxEntries: DefaultMaxEntries, SimilarDistance: DefaultSimilarDistance}
}

// Hamming returns the number of differing positions of two equal-length
// sequences. ok is false when the lengths differ.
func Hamming(a, b string) (d int, ok bool) {
	if len(a) != len(b) {
		return 0, false
	}
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d, true
}

// Check compares every pair of entries within each index slot. Inputs
// larger than MaxEntries yield a single TooMany issue. Issues are sorted
// errors first, then by first affected row.
func Check(entries []Entry, p Params) []Issue {
	if p.MaxEntries <= 0 {
		p.MaxEntries = DefaultMaxEntries
	}
	if p.SimilarDistance <= 0 {
		p.SimilarDistance = DefaultSimilarDistance
	}
	if len(entries) > p.MaxEntries {
		return []Issue{{
			Severity: TooMany.Severity(),
			Kind:     TooMany,
			Message:  fmt.Sprintf("too many entries: %d (limit %d)", len(entries), p.MaxEntries),
		}}
	}

	issues := checkSlot(entries, Index1, func(e Entry) string { return e.Index1 }, p)
	issues = append(issues, checkSlot(entries, Index2, func(e Entry) string { return e.Index2 }, p)...)

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Severity != issues[j].Severity {
			return issues[i].Severity < issues[j].Severity
		}
		return issues[i].Rows[0] < issues[j].Rows[0]
	})
	return issues
}

func checkSlot(entries []Entry, slot Slot, index func(Entry) string, p Params) []Issue {
	type item struct {
		e   Entry
		seq string
	}
	var items []item
	for _, e := range entries {
		if s := seq.Clean(index(e)); s != "" {
			items = append(items, item{e, s})
		}
	}

	var issues []Issue
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			add := func(k Kind, dist int, what string) {
				issues = append(issues, Issue{
					Severity:  k.Severity(),
					Kind:      k,
					Slot:      slot,
					Rows:      []int{a.e.Row, b.e.Row},
					Names:     []string{a.e.Name, b.e.Name},
					Sequences: []string{a.seq, b.seq},
					Distance:  dist,
					Message: fmt.Sprintf("%s of %s (row %d) and %s (row %d) %s",
						slot, a.e.Name, a.e.Row, b.e.Name, b.e.Row, what),
				})
			}

			if a.seq == b.seq {
				add(Duplicate, 0, "are identical")
			}
			if a.seq == seq.ReverseComplement(b.seq) {
				add(ReverseComplement, 0, "are reverse complements")
			}
			if a.seq != b.seq && a.seq == seq.Reverse(b.seq) {
				add(Reverse, 0, "are reverses of each other")
			}
			if d, ok := Hamming(a.seq, b.seq); ok && d > 0 && d <= p.SimilarDistance {
				add(Similar, d, fmt.Sprintf("differ at only %d positions", d))
			}
		}
	}
	return issues
}

// ParseSheet reads "name index1 [index2]" rows separated by tabs, commas or
// spaces. A single column is a bare index named by its row. Blank lines and
// '#' comments are skipped, as is a leading header row whose index column is
// not a nucleotide sequence.
func ParseSheet(text string) []Entry {
	var entries []Entry
	first := true
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == '\t' || r == ',' || r == ' ' || r == ';'
		})
		if len(fields) == 0 {
			continue
		}

		idx := 0
		if len(fields) > 1 {
			idx = 1
		}
		if first {
			first = false
			if !isSequence(fields[idx]) {
				continue
			}
		}

		row := len(entries) + 1
		e := Entry{Row: row, Name: fmt.Sprintf("S%d", row)}
		if len(fields) == 1 {
			e.Index1 = seq.Clean(fields[0])
		} else {
			e.Name = fields[0]
			e.Index1 = seq.Clean(fields[1])
			if len(fields) > 2 {
				e.Index2 = seq.Clean(fields[2])
			}
		}
		entries = append(entries, e)
	}
	return entries
}

func isSequence(s string) bool {
	return s != "" && seq.Clean(s) == strings.ToUpper(s)
}
