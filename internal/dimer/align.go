// Package dimer scores primer-dimer formation by ungapped complementary
// alignment and a nearest-neighbor free energy estimate.
package dimer

import (
	"strings"

	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// Alignment is the best ungapped antiparallel pairing of two sequences.
// Top is a window of the first sequence (5'->3'); Bottom is the facing
// window of the second, written 3'->5'. Match marks complementary pairs
// with '|'.
type Alignment struct {
	Top     string `json:"top"`
	Match   string `json:"match"`
	Bottom  string `json:"bottom"`
	OffsetA int    `json:"offset_a"`
	OffsetB int    `json:"offset_b"`
	Score   int    `json:"score"`
	Length  int    `json:"length"`
	Matches int    `json:"matches"`
}

// Complementarity is the percentage of aligned positions that pair.
func (a Alignment) Complementarity() float64 {
	if a.Length == 0 {
		return 0
	}
	return float64(a.Matches) / float64(a.Length) * 100
}

func pairs(x, y byte) bool {
	switch x {
	case 'A':
		return y == 'T'
	case 'T':
		return y == 'A'
	case 'C':
		return y == 'G'
	case 'G':
		return y == 'C'
	}
	return false
}

// Align lays b antiparallel under a and tries every pair of start offsets,
// scoring 2 per Watson-Crick pair over the overlapping window. The first
// offset pair reaching the maximum score, scanning offsets of a in the
// outer loop, wins. OffsetB counts from the 3' end of b.
func Align(a, b string) Alignment {
	a = seq.ReverseTranscribe(seq.Clean(a))
	bottom := seq.Reverse(seq.ReverseTranscribe(seq.Clean(b)))
	if a == "" || bottom == "" {
		return Alignment{}
	}

	best, bi, bj, bw := -1, 0, 0, 0
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(bottom); j++ {
			w := min(len(a)-i, len(bottom)-j)
			m := 0
			for k := 0; k < w; k++ {
				if pairs(a[i+k], bottom[j+k]) {
					m++
				}
			}
			if 2*m > best {
				best, bi, bj, bw = 2*m, i, j, w
			}
		}
	}

	top := a[bi : bi+bw]
	bot := bottom[bj : bj+bw]
	var match strings.Builder
	n := 0
	for k := 0; k < bw; k++ {
		if pairs(top[k], bot[k]) {
			match.WriteByte('|')
			n++
		} else {
			match.WriteByte(' ')
		}
	}
	return Alignment{
		Top:     top,
		Match:   match.String(),
		Bottom:  bot,
		OffsetA: bi,
		OffsetB: bj,
		Score:   best,
		Length:  bw,
		Matches: n,
	}
}
