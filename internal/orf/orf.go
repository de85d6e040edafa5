// Package orf finds open reading frames in all six frames of a sequence.
package orf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pzweuj/biotools-sub000/internal/codon"
	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// DefaultStartCodon is used when no start codons are configured.
const DefaultStartCodon = "ATG"

// Strand selects which strands are searched.
type Strand int

const (
	Both Strand = iota
	Forward
	Reverse
)

func (s Strand) String() string {
	switch s {
	case Both:
		return "both"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	}
	return fmt.Sprintf("Strand(%d)", int(s))
}

// ParseStrand maps "both", "forward"/"+" or "reverse"/"-" to a Strand.
func ParseStrand(s string) (Strand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "both", "":
		return Both, nil
	case "forward", "plus", "+":
		return Forward, nil
	case "reverse", "minus", "-":
		return Reverse, nil
	}
	return 0, fmt.Errorf("unknown strand %q", s)
}

// Params are the inputs of an ORF search.
type Params struct {
	// MinLength is the minimum ORF length in nucleotides, start and stop
	// codon included. Values <= 0 keep every terminated ORF.
	MinLength int
	// StartCodons are the accepted initiation codons; empty means ATG.
	StartCodons []string
	Code        codon.Code
	Strand      Strand
	// StopMode controls how the stop codon appears in Protein.
	StopMode codon.StopMode
}

// DefaultParams returns the parameters of a plain ATG, standard-code search.
func DefaultParams() Params {
	return Params{
		MinLength:   75,
		StartCodons: []string{DefaultStartCodon},
		Code:        codon.Standard,
		Strand:      Both,
		StopMode:    codon.StopMarker,
	}
}

// ORF is one open reading frame. Positions are 1-based, inclusive and always
// on the forward strand coordinate system.
type ORF struct {
	Frame           int     `json:"frame"`  // +1..+3 forward, -1..-3 reverse
	Strand          string  `json:"strand"` // "+" or "-"
	Start           int     `json:"start"`
	End             int     `json:"end"`
	Length          int     `json:"length"` // nucleotides, multiple of 3
	AminoAcids      int     `json:"amino_acids"`
	Protein         string  `json:"protein"`
	StartCodon      string  `json:"start_codon"`
	StopCodon       string  `json:"stop_codon"`
	MolecularWeight float64 `json:"molecular_weight"`
}

// ParseStartCodons parses a comma or whitespace separated codon list.
// Entries are cleaned, U is read as T, entries that are not exactly three
// bases are ignored and duplicates are dropped. An empty result yields ATG.
func ParseStartCodons(list string) []string {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	return normalizeStarts(fields)
}

func normalizeStarts(codons []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range codons {
		c = seq.ReverseTranscribe(seq.Clean(c))
		if len(c) != 3 || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return []string{DefaultStartCodon}
	}
	return out
}

// Find returns all ORFs of s matching p, longest first. Ties keep discovery
// order: forward frames +1..+3, then reverse frames -1..-3, each left to
// right. Unterminated ORFs are never reported.
func Find(s string, p Params) []ORF {
	s = seq.ReverseTranscribe(seq.Clean(s))
	starts := make(map[string]bool)
	for _, c := range normalizeStarts(p.StartCodons) {
		starts[c] = true
	}

	var orfs []ORF
	if p.Strand != Reverse {
		for offset := 0; offset < 3; offset++ {
			orfs = append(orfs, scanFrame(s, offset, starts, p)...)
		}
	}
	if p.Strand != Forward {
		rc := seq.ReverseComplement(s)
		L := len(s)
		for offset := 0; offset < 3; offset++ {
			for _, o := range scanFrame(rc, offset, starts, p) {
				o.Frame = -o.Frame
				o.Strand = "-"
				o.Start, o.End = L-o.End+1, L-o.Start+1
				orfs = append(orfs, o)
			}
		}
	}

	sort.SliceStable(orfs, func(i, j int) bool {
		return orfs[i].Length > orfs[j].Length
	})
	return orfs
}

// scanFrame applies the first-start/first-stop policy to one frame of s.
// Once an ORF is open, further start codons are ignored until a stop
// closes it.
func scanFrame(s string, offset int, starts map[string]bool, p Params) []ORF {
	residues := p.Code.Residues(s, offset)

	var orfs []ORF
	open := -1
	for i, aa := range residues {
		pos := offset + 3*i
		if open < 0 {
			if starts[s[pos:pos+3]] {
				open = i
			}
			continue
		}
		if aa != codon.Stop {
			continue
		}

		length := (i - open + 1) * 3
		if length >= p.MinLength {
			startPos := offset + 3*open
			body := residues[open : i+1]
			orfs = append(orfs, ORF{
				Frame:           offset + 1,
				Strand:          "+",
				Start:           startPos + 1,
				End:             pos + 3,
				Length:          length,
				AminoAcids:      len(body) - 1,
				Protein:         codon.Render(body, p.StopMode),
				StartCodon:      s[startPos : startPos+3],
				StopCodon:       s[pos : pos+3],
				MolecularWeight: codon.MolecularWeight(string(body[:len(body)-1])),
			})
		}
		open = -1
	}
	return orfs
}
