package codon

import (
	"fmt"
	"strings"

	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// StopMode selects how stop codons are rendered during translation.
type StopMode int

const (
	// StopMarker emits '*' and keeps translating.
	StopMarker StopMode = iota
	// StopLabel emits the word "Stop" and keeps translating.
	StopLabel
	// StopTruncate ends translation at the first stop codon.
	StopTruncate
)

// StopLabelText is written in place of a stop codon in StopLabel mode.
const StopLabelText = "Stop"

func (m StopMode) String() string {
	switch m {
	case StopMarker:
		return "marker"
	case StopLabel:
		return "label"
	case StopTruncate:
		return "truncate"
	}
	return fmt.Sprintf("StopMode(%d)", int(m))
}

// ParseStopMode maps "marker", "label" or "truncate" to a StopMode.
func ParseStopMode(s string) (StopMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "marker", "asterisk", "*", "":
		return StopMarker, nil
	case "label", "stop":
		return StopLabel, nil
	case "truncate":
		return StopTruncate, nil
	}
	return 0, fmt.Errorf("unknown stop mode %q", s)
}

// Residues translates s starting at offset (0, 1 or 2) into one residue per
// complete codon. Stop codons yield Stop; a trailing partial codon is dropped.
func (c Code) Residues(s string, offset int) []byte {
	if offset < 0 || offset >= len(s) {
		return nil
	}
	n := (len(s) - offset) / 3
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		p := offset + 3*i
		out[i] = c.TranslateCodon(s[p : p+3])
	}
	return out
}

// Translate translates s in reading frame 1, 2 or 3 (reading starts at
// position 0, 1 or 2). Frames outside 1..3 are read as frame 1.
func (c Code) Translate(s string, frame int, mode StopMode) string {
	if frame < 1 || frame > 3 {
		frame = 1
	}
	return Render(c.Residues(s, frame-1), mode)
}

// TranslateFrame translates s in a signed frame: +1..+3 read s itself and
// -1..-3 read its reverse complement. Zero is read as +1.
func (c Code) TranslateFrame(s string, frame int, mode StopMode) string {
	if frame < 0 {
		return c.Translate(seq.ReverseComplement(s), -frame, mode)
	}
	return c.Translate(s, frame, mode)
}

// Translate translates s with the standard code.
func Translate(s string, frame int, mode StopMode) string {
	return Standard.Translate(s, frame, mode)
}

// Render formats residues according to mode.
func Render(residues []byte, mode StopMode) string {
	var b strings.Builder
	b.Grow(len(residues))
	for _, aa := range residues {
		if aa != Stop {
			b.WriteByte(aa)
			continue
		}
		switch mode {
		case StopTruncate:
			return b.String()
		case StopLabel:
			b.WriteString(StopLabelText)
		default:
			b.WriteByte(Stop)
		}
	}
	return b.String()
}

// WaterMass is the average mass of water (Da), added once per peptide for
// the terminal hydrolysis.
const WaterMass = 18.015

// residueMass holds average residue masses (Da) of the 20 standard amino
// acids, i.e. free amino acid mass minus one water.
var residueMass = map[byte]float64{
	'A': 71.0788, 'R': 156.1875, 'N': 114.1038, 'D': 115.0886,
	'C': 103.1388, 'E': 129.1155, 'Q': 128.1307, 'G': 57.0519,
	'H': 137.1411, 'I': 113.1594, 'L': 113.1594, 'K': 128.1741,
	'M': 131.1926, 'F': 147.1766, 'P': 97.1167, 'S': 87.0782,
	'T': 101.1051, 'W': 186.2132, 'Y': 163.1760, 'V': 99.1326,
}

// MolecularWeight returns the average molecular weight (Da) of a protein.
// Stop markers and unknown residues contribute nothing; an empty protein
// weighs 0. Proteins rendered in StopLabel mode must not be passed here.
func MolecularWeight(protein string) float64 {
	var sum float64
	var n int
	for i := 0; i < len(protein); i++ {
		if m, ok := residueMass[protein[i]]; ok {
			sum += m
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum + WaterMass
}
