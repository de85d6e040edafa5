package restriction

/* -------------------------- IUPAC lookup table -------------------------- */

var iupacMask [256]uint8 // bit0=A bit1=C bit2=G bit3=T

var iupacComplement [256]byte

func init() {
	set := func(c byte, bits uint8) { iupacMask[c] = bits }
	set('A', 1)       // 0001
	set('C', 2)       // 0010
	set('G', 4)       // 0100
	set('T', 8)       // 1000
	set('R', 1|4)     // A/G
	set('Y', 2|8)     // C/T
	set('S', 2|4)     // C/G
	set('W', 1|8)     // A/T
	set('K', 4|8)     // G/T
	set('M', 1|2)     // A/C
	set('B', 2|4|8)   // C/G/T
	set('D', 1|4|8)   // A/G/T
	set('H', 1|2|8)   // A/C/T
	set('V', 1|2|4)   // A/C/G
	set('N', 1|2|4|8) // any

	pairs := []string{"AT", "CG", "RY", "KM", "BV", "DH", "SS", "WW", "NN"}
	for _, p := range pairs {
		iupacComplement[p[0]] = p[1]
		iupacComplement[p[1]] = p[0]
	}
}

// Pattern is a recognition site compiled to per-position base masks.
type Pattern struct {
	site  string
	masks []uint8
}

// Compile converts an IUPAC recognition site into a Pattern.
func Compile(site string) Pattern {
	m := make([]uint8, len(site))
	for i := 0; i < len(site); i++ {
		c := site[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		m[i] = iupacMask[c]
	}
	return Pattern{site: site, masks: m}
}

// Len returns the site length.
func (p Pattern) Len() int {
	return len(p.masks)
}

// MatchAt reports whether the site matches s at offset i. Only A, C, G and
// T in s can match; an N (or any other byte) in the sequence is a mismatch.
func (p Pattern) MatchAt(s string, i int) bool {
	n := len(p.masks)
	if n == 0 || i < 0 || i+n > len(s) {
		return false
	}
	for k := 0; k < n; k++ {
		b := s[i+k]
		if b != 'A' && b != 'C' && b != 'G' && b != 'T' {
			return false
		}
		if iupacMask[b]&p.masks[k] == 0 {
			return false
		}
	}
	return true
}

// FindAll returns the start offsets of every (possibly overlapping) match
// that starts before limit.
func (p Pattern) FindAll(s string, limit int) []int {
	var hits []int
	n := len(p.masks)
	for i := 0; i+n <= len(s) && i < limit; i++ {
		if p.MatchAt(s, i) {
			hits = append(hits, i)
		}
	}
	return hits
}

// ReverseComplementSite returns the IUPAC reverse complement of a site.
// Unknown symbols map to N.
func ReverseComplementSite(site string) string {
	n := len(site)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := site[n-1-i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		rc := iupacComplement[c]
		if rc == 0 {
			rc = 'N'
		}
		out[i] = rc
	}
	return string(out)
}

// IsPalindromic reports whether a site reads the same on both strands.
func IsPalindromic(site string) bool {
	return site != "" && ReverseComplementSite(site) == site
}
