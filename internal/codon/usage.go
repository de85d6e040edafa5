package codon

import "strings"

// CodonCount is the usage of one codon in an analyzed sequence.
type CodonCount struct {
	Codon     string  `json:"codon"`
	AminoAcid byte    `json:"-"`
	Residue   string  `json:"amino_acid"`
	Count     int     `json:"count"`
	PerMille  float64 `json:"per_thousand"`
	Fraction  float64 `json:"fraction"` // share among synonymous codons
	RSCU      float64 `json:"rscu"`     // relative synonymous codon usage
}

// Usage summarizes codon usage over frame 1 of a coding sequence.
type Usage struct {
	Code    Code         `json:"-"`
	Codons  []CodonCount `json:"codons"`
	Total   int          `json:"total_codons"`
	Skipped int          `json:"skipped_codons"` // codons with ambiguous bases
	GC3     float64      `json:"gc3"`
}

// CountUsage counts codons of s in frame 1 using code c. Codons with bases
// outside ACGT/U are counted as skipped. The result lists all 64 codons in
// TCAG order, including unused ones.
func (c Code) CountUsage(s string) Usage {
	s = strings.ReplaceAll(strings.ToUpper(s), "U", "T")
	counts := make(map[string]int, 64)
	u := Usage{Code: c}

	var gc3 int
	for i := 0; i+3 <= len(s); i += 3 {
		codon := s[i : i+3]
		if c.TranslateCodon(codon) == Unknown {
			u.Skipped++
			continue
		}
		counts[codon]++
		u.Total++
		if codon[2] == 'G' || codon[2] == 'C' {
			gc3++
		}
	}
	if u.Total > 0 {
		u.GC3 = float64(gc3) / float64(u.Total)
	}

	// Per amino acid totals for synonymous fractions.
	byAA := make(map[byte]int)
	for codon, n := range counts {
		byAA[c.TranslateCodon(codon)] += n
	}

	u.Codons = make([]CodonCount, 0, 64)
	for _, codon := range allCodons {
		aa := c.TranslateCodon(codon)
		cc := CodonCount{
			Codon:     codon,
			AminoAcid: aa,
			Residue:   string(aa),
			Count:     counts[codon],
		}
		if u.Total > 0 {
			cc.PerMille = 1000 * float64(cc.Count) / float64(u.Total)
		}
		if total := byAA[aa]; total > 0 {
			cc.Fraction = float64(cc.Count) / float64(total)
			cc.RSCU = cc.Fraction * float64(len(c.Synonyms(aa)))
		}
		u.Codons = append(u.Codons, cc)
	}

	return u
}
