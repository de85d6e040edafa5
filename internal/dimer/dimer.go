package dimer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// Primer is a named oligo.
type Primer struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
}

// DefaultMaxPrimers bounds the pairwise work of one analysis.
const DefaultMaxPrimers = 200

// ErrTooManyPrimers is returned by Analyze when the primer count exceeds
// Params.MaxPrimers.
var ErrTooManyPrimers = errors.New("too many primers")

// Params controls dimer scoring.
type Params struct {
	Temperature float64 // kelvin; zero means DefaultTemperature
	MaxPrimers  int     // zero means DefaultMaxPrimers
}

// DefaultParams returns scoring at 298 K with the default primer cap.
func DefaultParams() Params {
	return Params{Temperature: DefaultTemperature, MaxPrimers: DefaultMaxPrimers}
}

// Dimer is the scored best pairing of Top with Bottom.
type Dimer struct {
	Top             string    `json:"top"`
	Bottom          string    `json:"bottom"`
	Alignment       Alignment `json:"alignment"`
	Complementarity float64   `json:"complementarity"`
	Energy          Energy    `json:"energy"`
	Risk            Risk      `json:"risk"`
}

// Report holds the self-dimer of every primer and the hetero-dimer of every
// unordered pair, in input order.
type Report struct {
	Self   []Dimer `json:"self"`
	Hetero []Dimer `json:"hetero"`
}

func score(top, bottom Primer, al Alignment, p Params) Dimer {
	pct := al.Complementarity()
	e := FreeEnergy(al, p.Temperature)
	return Dimer{
		Top:             top.Name,
		Bottom:          bottom.Name,
		Alignment:       al,
		Complementarity: pct,
		Energy:          e,
		Risk:            Classify(e.DeltaG, pct, al.Length),
	}
}

// SelfDimer scores a primer against itself.
func SelfDimer(pr Primer, p Params) Dimer {
	return score(pr, pr, Align(pr.Sequence, pr.Sequence), p)
}

// HeteroDimer scores a against b in both orientations and keeps the higher
// alignment score; a on top wins ties.
func HeteroDimer(a, b Primer, p Params) Dimer {
	ab := Align(a.Sequence, b.Sequence)
	ba := Align(b.Sequence, a.Sequence)
	if ba.Score > ab.Score {
		return score(b, a, ba, p)
	}
	return score(a, b, ab, p)
}

// Analyze scores the self-dimer of every primer and the hetero-dimer of
// every unordered pair. More than p.MaxPrimers primers is an error.
func Analyze(primers []Primer, p Params) (Report, error) {
	if p.MaxPrimers <= 0 {
		p.MaxPrimers = DefaultMaxPrimers
	}
	if len(primers) > p.MaxPrimers {
		return Report{}, fmt.Errorf("%w: %d given, limit is %d", ErrTooManyPrimers, len(primers), p.MaxPrimers)
	}

	var r Report
	for _, pr := range primers {
		r.Self = append(r.Self, SelfDimer(pr, p))
	}
	for i := 0; i < len(primers); i++ {
		for j := i + 1; j < len(primers); j++ {
			r.Hetero = append(r.Hetero, HeteroDimer(primers[i], primers[j], p))
		}
	}
	return r, nil
}

// Highest returns the most severe risk in the report.
func (r Report) Highest() Risk {
	worst := Low
	for _, list := range [][]Dimer{r.Self, r.Hetero} {
		for _, d := range list {
			if d.Risk > worst {
				worst = d.Risk
			}
		}
	}
	return worst
}

// ParsePrimers reads primers from FASTA, "name sequence" lines or bare
// sequences (named P1, P2, ...). Blank and '#' lines are skipped, as are
// entries with no nucleotides left after cleaning.
func ParsePrimers(text string) []Primer {
	var out []Primer
	if strings.Contains(text, ">") {
		for _, r := range seq.ParseText(text) {
			if r.Sequence != "" {
				out = append(out, Primer{Name: r.Name, Sequence: r.Sequence})
			}
		}
		return out
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == '\t' || r == ' ' || r == ',' || r == ';'
		})
		if len(fields) == 0 {
			continue
		}
		name := fmt.Sprintf("P%d", len(out)+1)
		body := fields[0]
		if len(fields) > 1 {
			name, body = fields[0], strings.Join(fields[1:], "")
		}
		if s := seq.Clean(body); s != "" {
			out = append(out, Primer{Name: name, Sequence: s})
		}
	}
	return out
}
