package restriction

import (
	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// End is the sticky (or blunt) end left by an enzyme at its first site in
// a sequence. Sequence is the top-strand single-stranded region, 5'->3'.
type End struct {
	Enzyme   string   `json:"enzyme"`
	Found    bool     `json:"found"`
	Type     Overhang `json:"type"`
	Sequence string   `json:"sequence"`
	Cut      int      `json:"cut"`
}

// Compatibility is the result of a ligation check.
type Compatibility struct {
	Compatible bool   `json:"compatible"`
	Reason     string `json:"reason"`
	A          End    `json:"a"`
	B          End    `json:"b"`
}

// EndOf digests s with e and describes the end produced at the first
// recognition site (lowest site start; forward strand first on ties).
// Found is false when e has no site in s, or when the overhang of a linear
// molecule would extend past its ends.
func EndOf(s string, e Enzyme, circular bool) End {
	s = seq.ReverseTranscribe(seq.Clean(s))
	end := End{Enzyme: e.Name, Type: e.Overhang()}

	sites := Search(s, Params{Enzymes: []Enzyme{e}, Circular: circular})
	if len(sites) == 0 {
		return end
	}
	first := sites[0]
	for _, site := range sites[1:] {
		if site.Start < first.Start || (site.Start == first.Start && site.Strand == "+" && first.Strand != "+") {
			first = site
		}
	}

	// 5' overhangs run from the top cut to the bottom cut, 3' overhangs
	// the other way round.
	lo, hi := first.TopCut, first.BottomCut
	if end.Type == ThreePrime {
		lo, hi = hi, lo
	}
	L := len(s)
	switch {
	case circular:
		if hi < lo {
			hi += L
		}
		var b []byte
		for i := lo; i < hi; i++ {
			b = append(b, s[mod(i, L)])
		}
		end.Sequence = string(b)
	case lo < 0 || hi > L:
		return end
	default:
		end.Sequence = s[lo:hi]
	}

	end.Found = true
	end.Cut = first.TopCut
	return end
}

// Compatible reports whether two ends can be ligated: both blunt, or the
// same overhang type with one overhang the reverse complement of the other.
func Compatible(a, b End) Compatibility {
	c := Compatibility{A: a, B: b}
	switch {
	case !a.Found || !b.Found:
		c.Reason = "enzyme site not found"
	case a.Type == Blunt && b.Type == Blunt:
		c.Compatible = true
		c.Reason = "blunt ends"
	case a.Type != b.Type:
		c.Reason = "overhang types differ"
	case len(a.Sequence) != len(b.Sequence):
		c.Reason = "overhang lengths differ"
	case a.Sequence == seq.ReverseComplement(b.Sequence):
		c.Compatible = true
		c.Reason = "complementary overhangs"
	default:
		c.Reason = "overhangs are not complementary"
	}
	return c
}

// Ligate checks whether the ends of a digested with ea and b digested with
// eb can be joined.
func Ligate(a string, ea Enzyme, b string, eb Enzyme, circular bool) Compatibility {
	return Compatible(EndOf(a, ea, circular), EndOf(b, eb, circular))
}
