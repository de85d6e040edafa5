package restriction

import (
	"sort"

	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// Params are the inputs of a restriction search.
type Params struct {
	Enzymes  []Enzyme
	Circular bool
}

// CutSite is one recognition site occurrence. Start and End are 1-based,
// inclusive, forward-strand coordinates of the recognition site (End < Start
// when a circular site spans the origin). TopCut and BottomCut give the
// number of bases 5' of the cut on each strand in forward coordinates, so a
// cut sits between base TopCut and TopCut+1. On linear molecules cuts may
// fall outside [0, L] for enzymes that cut outside their site.
//
// Cut offsets count bases, not indexes, so a site of length n matched on the
// reverse strand mirrors an offset c to n-c rather than n-1-c. GGTCTC(1/5)
// has offsets 7 and 11; found as GAGACC at start s it cuts the top strand
// at s+(6-11) = s-5.
type CutSite struct {
	Enzyme    string   `json:"enzyme"`
	Site      string   `json:"site"`
	Start     int      `json:"start"`
	End       int      `json:"end"`
	TopCut    int      `json:"top_cut"`
	BottomCut int      `json:"bottom_cut"`
	Strand    string   `json:"strand"`
	Overhang  Overhang `json:"overhang"`
}

// Fragment is one digest product. Start and End are 1-based and inclusive;
// End < Start marks a circular fragment that spans the origin.
type Fragment struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Length int `json:"length"`
}

// Result is the outcome of a digest.
type Result struct {
	Length    int        `json:"length"`
	Circular  bool       `json:"circular"`
	Sites     []CutSite  `json:"sites"`
	Fragments []Fragment `json:"fragments"`
}

// EnzymeCount is the number of sites an enzyme has in a sequence.
type EnzymeCount struct {
	Enzyme string `json:"enzyme"`
	Sites  int    `json:"sites"`
}

// Digest cleans s, finds every site of the selected enzymes and computes
// the resulting fragments.
func Digest(s string, p Params) Result {
	s = seq.ReverseTranscribe(seq.Clean(s))
	sites := Search(s, p)
	cuts := make([]int, len(sites))
	for i, site := range sites {
		cuts[i] = site.TopCut
	}
	return Result{
		Length:    len(s),
		Circular:  p.Circular,
		Sites:     sites,
		Fragments: Fragments(len(s), cuts, p.Circular),
	}
}

type siteKey struct {
	enzyme     string
	start, top int
}

// Search returns every site of every selected enzyme on both strands of s,
// ordered by top-strand cut position. s must already be cleaned upper case
// DNA. Palindromic sites are only reported once.
func Search(s string, p Params) []CutSite {
	L := len(s)
	if L == 0 {
		return nil
	}
	rc := seq.ReverseComplement(s)

	var sites []CutSite
	seen := make(map[siteKey]bool)
	add := func(c CutSite) {
		k := siteKey{c.Enzyme, c.Start, c.TopCut}
		if seen[k] {
			return
		}
		seen[k] = true
		sites = append(sites, c)
	}

	for _, e := range p.Enzymes {
		pat := Compile(e.Site)
		n := pat.Len()
		if n == 0 || (!p.Circular && n > L) {
			continue
		}

		fwd, rev := s, rc
		if p.Circular {
			wrap := min(n-1, L)
			fwd = s + s[:wrap]
			rev = rc + rc[:wrap]
			// Sites longer than the molecule would need more than one lap.
			for len(fwd) < L+n-1 {
				fwd += s
				rev += rc
			}
		}

		for _, i := range pat.FindAll(fwd, L) {
			add(newSite(e, i, i+e.TopCut, i+e.BottomCut, "+", L, p.Circular))
		}

		if IsPalindromic(e.Site) {
			continue
		}
		for _, j := range pat.FindAll(rev, L) {
			start := L - (j + n)
			// Offsets mirror as n-c; see CutSite.
			add(newSite(e, start, start+(n-e.BottomCut), start+(n-e.TopCut), "-", L, p.Circular))
		}
	}

	sort.SliceStable(sites, func(i, j int) bool {
		if sites[i].TopCut != sites[j].TopCut {
			return sites[i].TopCut < sites[j].TopCut
		}
		return sites[i].Start < sites[j].Start
	})
	return sites
}

// newSite builds a CutSite from a 0-based site start and cut offsets in
// forward coordinates.
func newSite(e Enzyme, start, top, bottom int, strand string, L int, circular bool) CutSite {
	n := len(e.Site)
	if circular {
		start = mod(start, L)
		top = mod(top, L)
		bottom = mod(bottom, L)
	}
	return CutSite{
		Enzyme:    e.Name,
		Site:      e.Site,
		Start:     start + 1,
		End:       mod(start+n-1, L) + 1,
		TopCut:    top,
		BottomCut: bottom,
		Strand:    strand,
		Overhang:  e.Overhang(),
	}
}

func mod(a, n int) int {
	if n == 0 {
		return 0
	}
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// Fragments computes digest fragments of a molecule of the given length from
// top-strand cut positions. Duplicate positions count once. On linear
// molecules only cuts strictly inside the sequence split it. The result is
// sorted by descending length; ties keep molecule order.
func Fragments(length int, cuts []int, circular bool) []Fragment {
	if length <= 0 {
		return nil
	}

	set := make(map[int]bool)
	var pos []int
	for _, c := range cuts {
		if circular {
			c = mod(c, length)
		} else if c <= 0 || c >= length {
			continue
		}
		if !set[c] {
			set[c] = true
			pos = append(pos, c)
		}
	}
	sort.Ints(pos)

	var frags []Fragment
	switch {
	case len(pos) == 0:
		frags = []Fragment{{Start: 1, End: length, Length: length}}
	case !circular:
		prev := 0
		for _, c := range pos {
			frags = append(frags, Fragment{Start: prev + 1, End: c, Length: c - prev})
			prev = c
		}
		frags = append(frags, Fragment{Start: prev + 1, End: length, Length: length - prev})
	default:
		for i, c := range pos {
			next := pos[(i+1)%len(pos)]
			size := next - c
			if size <= 0 {
				size += length
			}
			end := next
			if end == 0 {
				end = length
			}
			frags = append(frags, Fragment{Start: c + 1, End: end, Length: size})
		}
	}

	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].Length > frags[j].Length
	})
	return frags
}

// CountSites returns the number of sites per enzyme, in enzyme order,
// including enzymes that do not cut.
func CountSites(enzymes []Enzyme, sites []CutSite) []EnzymeCount {
	n := make(map[string]int)
	for _, s := range sites {
		n[s.Enzyme]++
	}
	out := make([]EnzymeCount, len(enzymes))
	for i, e := range enzymes {
		out[i] = EnzymeCount{Enzyme: e.Name, Sites: n[e.Name]}
	}
	return out
}
