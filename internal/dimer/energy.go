package dimer

import "fmt"

// DefaultTemperature is the temperature in kelvin used for ΔG.
const DefaultTemperature = 298.0

// Duplex initiation applied once per alignment that has at least one stack,
// and the penalty for each stacked run end closed by an A·T pair.
const (
	initH = 0.2
	initS = -5.7

	termATH = 2.2
	termATS = 6.9
)

type nnParam struct {
	h, s float64 // kcal/mol, cal/(mol·K)
}

// nearestNeighbor holds unified Watson-Crick stack parameters keyed by the
// top-strand dinucleotide 5'->3'.
var nearestNeighbor = map[string]nnParam{
	"AA": {-7.6, -21.3}, "TT": {-7.6, -21.3},
	"AT": {-7.2, -20.4},
	"TA": {-7.2, -21.3},
	"CA": {-8.5, -22.7}, "TG": {-8.5, -22.7},
	"GT": {-8.4, -22.4}, "AC": {-8.4, -22.4},
	"CT": {-7.8, -21.0}, "AG": {-7.8, -21.0},
	"GA": {-8.2, -22.2}, "TC": {-8.2, -22.2},
	"CG": {-10.6, -27.2},
	"GC": {-9.8, -24.4},
	"GG": {-8.0, -19.9}, "CC": {-8.0, -19.9},
}

// Energy is a nearest-neighbor estimate for an alignment.
type Energy struct {
	DeltaH float64 `json:"delta_h"`
	DeltaS float64 `json:"delta_s"`
	DeltaG float64 `json:"delta_g"`
	Stacks int     `json:"stacks"`
}

// FreeEnergy sums stack parameters over every pair of consecutive
// complementary positions in the alignment. Each end of a run of two or
// more matches that is an A·T pair adds the terminal AT penalty. Isolated
// matches contribute nothing; an alignment without stacks has zero energy.
func FreeEnergy(a Alignment, temperature float64) Energy {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	var e Energy
	for k := 0; k+1 < a.Length; k++ {
		if a.Match[k] != '|' || a.Match[k+1] != '|' {
			continue
		}
		p, ok := nearestNeighbor[a.Top[k:k+2]]
		if !ok {
			continue
		}
		e.DeltaH += p.h
		e.DeltaS += p.s
		e.Stacks++
	}
	if e.Stacks == 0 {
		return Energy{}
	}
	for _, end := range runEnds(a.Match) {
		if isAT(a.Top[end]) {
			e.DeltaH += termATH
			e.DeltaS += termATS
		}
	}
	e.DeltaH += initH
	e.DeltaS += initS
	e.DeltaG = e.DeltaH - temperature*e.DeltaS/1000
	return e
}

// runEnds returns the first and last position of every run of two or more
// consecutive matches.
func runEnds(match string) []int {
	var ends []int
	for i := 0; i < len(match); {
		if match[i] != '|' {
			i++
			continue
		}
		j := i
		for j+1 < len(match) && match[j+1] == '|' {
			j++
		}
		if j > i {
			ends = append(ends, i, j)
		}
		i = j + 1
	}
	return ends
}

func isAT(b byte) bool {
	switch b {
	case 'A', 'T', 'U', 'a', 't', 'u':
		return true
	}
	return false
}

// Risk is the dimer formation risk tier.
type Risk int

const (
	Low Risk = iota
	Medium
	High
)

func (r Risk) String() string {
	switch r {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return fmt.Sprintf("Risk(%d)", int(r))
}

// MarshalText renders the tier name for JSON output.
func (r Risk) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Classify assigns a risk tier from ΔG (kcal/mol), complementarity percent
// and aligned length.
func Classify(deltaG, complementarity float64, length int) Risk {
	switch {
	case deltaG < -8 || (complementarity > 70 && length >= 6):
		return High
	case deltaG < -5 || (complementarity > 50 && length >= 4):
		return Medium
	}
	return Low
}
