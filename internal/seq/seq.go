// Package seq provides nucleotide sequence primitives and record I/O.
package seq

import "strings"

// iupacNucleotide marks the bytes kept by Clean.
var iupacNucleotide [256]bool

func init() {
	for _, c := range []byte("ACGTURYSWKMBDHVN") {
		iupacNucleotide[c] = true
	}
}

// IsNucleotide reports whether b (upper case) is an IUPAC nucleotide symbol.
func IsNucleotide(b byte) bool {
	return iupacNucleotide[b]
}

// Clean upper-cases s and strips every byte that is not an IUPAC nucleotide
// symbol. Whitespace, digits and punctuation from pasted text are removed.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if iupacNucleotide[c] {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Complement returns the Watson-Crick complement of a single base.
// A, C, G, T and N are complemented with case preserved; any other byte
// is returned unchanged.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	case 'a':
		return 't'
	case 't':
		return 'a'
	case 'g':
		return 'c'
	case 'c':
		return 'g'
	default:
		return base
	}
}

// ReverseComplement returns the reverse complement of a DNA sequence.
func ReverseComplement(s string) string {
	n := len(s)
	// Stack-allocate for primer-sized inputs.
	var buf [64]byte
	var result []byte
	if n <= len(buf) {
		result = buf[:n]
	} else {
		result = make([]byte, n)
	}
	for i := 0; i < n; i++ {
		result[i] = Complement(s[n-1-i])
	}
	return string(result)
}

// Reverse returns s with its bytes in reverse order.
func Reverse(s string) string {
	n := len(s)
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = s[n-1-i]
	}
	return string(b)
}

// Transcribe converts DNA to RNA by replacing T with U (and t with u).
func Transcribe(s string) string {
	return strings.NewReplacer("T", "U", "t", "u").Replace(s)
}

// ReverseTranscribe converts RNA back to DNA (U to T, u to t).
func ReverseTranscribe(s string) string {
	return strings.NewReplacer("U", "T", "u", "t").Replace(s)
}

// GCContent returns the G+C fraction over unambiguous bases.
// Returns 0 when s has no A, C, G, T or U.
func GCContent(s string) float64 {
	var gc, total int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'G', 'C', 'g', 'c':
			gc++
			total++
		case 'A', 'T', 'U', 'a', 't', 'u':
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(gc) / float64(total)
}
