// Package codon provides genetic code tables and translation.
package codon

import (
	"fmt"
	"strconv"
	"strings"
)

// Code identifies a genetic code variant.
type Code int

// Genetic codes, numbered as in the NCBI translation tables.
const (
	Standard                  Code = 1
	VertebrateMitochondrial   Code = 2
	YeastMitochondrial        Code = 3
	MoldMitochondrial         Code = 4
	InvertebrateMitochondrial Code = 5
	Bacterial                 Code = 11
)

// Stop is the residue emitted for stop codons.
const Stop byte = '*'

// Unknown is the residue emitted for codons that are not in the table
// (ambiguous bases, gaps, anything outside ACGT/U).
const Unknown byte = 'X'

// standardTable is the standard genetic code: DNA codon to amino acid.
var standardTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

type codeInfo struct {
	name      string
	overrides map[string]byte
	starts    []string
	table     map[string]byte
}

var codes = map[Code]*codeInfo{
	Standard: {
		name:   "standard",
		starts: []string{"TTG", "CTG", "ATG"},
	},
	VertebrateMitochondrial: {
		name:      "vertebrate-mitochondrial",
		overrides: map[string]byte{"AGA": '*', "AGG": '*', "ATA": 'M', "TGA": 'W'},
		starts:    []string{"ATT", "ATC", "ATA", "ATG", "GTG"},
	},
	YeastMitochondrial: {
		name: "yeast-mitochondrial",
		overrides: map[string]byte{
			"ATA": 'M', "TGA": 'W',
			"CTT": 'T', "CTC": 'T', "CTA": 'T', "CTG": 'T',
		},
		starts: []string{"ATA", "ATG", "GTG"},
	},
	MoldMitochondrial: {
		name:      "mold-mitochondrial",
		overrides: map[string]byte{"TGA": 'W'},
		starts:    []string{"TTA", "TTG", "CTG", "ATT", "ATC", "ATA", "ATG", "GTG"},
	},
	InvertebrateMitochondrial: {
		name:      "invertebrate-mitochondrial",
		overrides: map[string]byte{"AGA": 'S', "AGG": 'S', "ATA": 'M', "TGA": 'W'},
		starts:    []string{"TTG", "ATT", "ATC", "ATA", "ATG", "GTG"},
	},
	Bacterial: {
		name:   "bacterial",
		starts: []string{"TTG", "CTG", "ATT", "ATC", "ATA", "ATG", "GTG"},
	},
}

func init() {
	for _, info := range codes {
		t := make(map[string]byte, len(standardTable))
		for c, aa := range standardTable {
			t[c] = aa
		}
		for c, aa := range info.overrides {
			t[c] = aa
		}
		info.table = t
	}
}

// Codes returns all supported genetic codes in NCBI id order.
func Codes() []Code {
	return []Code{
		Standard, VertebrateMitochondrial, YeastMitochondrial,
		MoldMitochondrial, InvertebrateMitochondrial, Bacterial,
	}
}

// Valid reports whether c is a supported genetic code.
func (c Code) Valid() bool {
	_, ok := codes[c]
	return ok
}

func (c Code) info() *codeInfo {
	if info, ok := codes[c]; ok {
		return info
	}
	return codes[Standard]
}

// String returns the canonical name of the code.
func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// StartCodons returns the initiation codons of the code, including
// alternative starts.
func (c Code) StartCodons() []string {
	return append([]string(nil), c.info().starts...)
}

// ParseCode resolves a genetic code by canonical name or NCBI table id.
func ParseCode(s string) (Code, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		c := Code(n)
		if c.Valid() {
			return c, nil
		}
		return 0, fmt.Errorf("unsupported genetic code table %d", n)
	}
	s = strings.ReplaceAll(s, "_", "-")
	for c, info := range codes {
		if info.name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown genetic code %q", s)
}

// TranslateCodon translates a single codon (DNA or RNA, any case).
// Returns Unknown for codons not in the table and Stop for stop codons.
// Unsupported codes fall back to the standard code.
func (c Code) TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return Unknown
	}
	var buf [3]byte
	for i := 0; i < 3; i++ {
		b := codon[i]
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if b == 'U' {
			b = 'T'
		}
		buf[i] = b
	}
	if aa, ok := c.info().table[string(buf[:])]; ok {
		return aa
	}
	return Unknown
}

// IsStop reports whether codon is a stop codon in c.
func (c Code) IsStop(codon string) bool {
	return c.TranslateCodon(codon) == Stop
}

// Synonyms returns the codons encoding aa in c, sorted.
func (c Code) Synonyms(aa byte) []string {
	var out []string
	for _, codon := range allCodons {
		if c.info().table[codon] == aa {
			out = append(out, codon)
		}
	}
	return out
}

// allCodons lists the 64 codons in TCAG order.
var allCodons = func() []string {
	const bases = "TCAG"
	out := make([]string, 0, 64)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				out = append(out, string([]byte{bases[i], bases[j], bases[k]}))
			}
		}
	}
	return out
}()

// AllCodons returns the 64 sense and stop codons in TCAG order.
func AllCodons() []string {
	return append([]string(nil), allCodons...)
}

// aminoAcidThree converts single letter amino acid to three letter code.
var aminoAcidThree = map[byte]string{
	'A': "Ala", 'C': "Cys", 'D': "Asp", 'E': "Glu",
	'F': "Phe", 'G': "Gly", 'H': "His", 'I': "Ile",
	'K': "Lys", 'L': "Leu", 'M': "Met", 'N': "Asn",
	'P': "Pro", 'Q': "Gln", 'R': "Arg", 'S': "Ser",
	'T': "Thr", 'V': "Val", 'W': "Trp", 'Y': "Tyr",
	'*': "Ter", 'X': "Xaa",
}

// ThreeLetter returns the three letter name of a residue ("Xaa" if unknown).
func ThreeLetter(aa byte) string {
	if s, ok := aminoAcidThree[aa]; ok {
		return s
	}
	return "Xaa"
}
