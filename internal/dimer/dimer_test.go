package dimer

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfDimer_InvertedRepeat(t *testing.T) {
	d := SelfDimer(Primer{Name: "p", Sequence: "ATCGCGAT"}, DefaultParams())

	assert.Equal(t, 8, d.Alignment.Length)
	assert.Equal(t, 8, d.Alignment.Matches)
	assert.Equal(t, 16, d.Alignment.Score)
	assert.Equal(t, "||||||||", d.Alignment.Match)
	assert.InDelta(t, 100.0, d.Complementarity, 1e-9)

	assert.Equal(t, 7, d.Energy.Stacks)
	// Seven stacks, initiation and two A·T run ends.
	assert.InDelta(t, -57.2, d.Energy.DeltaH, 1e-9)
	assert.InDelta(t, -155.9, d.Energy.DeltaS, 1e-9)
	assert.InDelta(t, -10.7418, d.Energy.DeltaG, 1e-4)
	assert.Equal(t, High, d.Risk)
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		top     string
		offA    int
		offB    int
		score   int
		length  int
		matches int
	}{
		{"no pairing", "AAAA", "AAAA", "AAAA", 0, 0, 0, 4, 0},
		{"full duplex", "AAAAAA", "TTTTTT", "AAAAAA", 0, 0, 12, 6, 6},
		{"offset in a", "GGGGAAAA", "TTTT", "AAAA", 4, 0, 8, 4, 4},
		{"first maximum wins", "TAT", "A", "T", 0, 0, 2, 1, 1},
		{"rna input", "aucgcgau", "ATCGCGAT", "ATCGCGAT", 0, 0, 16, 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al := Align(tt.a, tt.b)
			assert.Equal(t, tt.top, al.Top)
			assert.Equal(t, tt.offA, al.OffsetA)
			assert.Equal(t, tt.offB, al.OffsetB)
			assert.Equal(t, tt.score, al.Score)
			assert.Equal(t, tt.length, al.Length)
			assert.Equal(t, tt.matches, al.Matches)
			assert.Len(t, al.Match, al.Length)
			assert.Len(t, al.Bottom, al.Length)
		})
	}
}

func TestAlign_Empty(t *testing.T) {
	assert.Equal(t, Alignment{}, Align("", "ACGT"))
	assert.Equal(t, Alignment{}, Align("ACGT", "1234"))
	assert.Zero(t, Alignment{}.Complementarity())
}

func TestFreeEnergy(t *testing.T) {
	e := FreeEnergy(Align("AAAAAA", "TTTTTT"), 0)
	assert.Equal(t, 5, e.Stacks)
	assert.InDelta(t, -33.4, e.DeltaH, 1e-9)
	assert.InDelta(t, -98.4, e.DeltaS, 1e-9)
	assert.InDelta(t, -4.0768, e.DeltaG, 1e-4)

	// Higher temperature destabilizes the duplex.
	hot := FreeEnergy(Align("AAAAAA", "TTTTTT"), 340)
	assert.Greater(t, hot.DeltaG, e.DeltaG)
}

func TestFreeEnergy_TerminalATPenalty(t *testing.T) {
	tests := []struct {
		name string
		al   Alignment
		h, s float64
		dG   float64
	}{
		// GC: stack -9.8/-24.4 plus initiation, no A·T end.
		{"gc ends", Alignment{Top: "GC", Match: "||", Bottom: "CG", Length: 2}, -9.6, -30.1, -0.6302},
		// AG: stack -7.8/-21.0, initiation and one A·T end.
		{"one at end", Alignment{Top: "AG", Match: "||", Bottom: "TC", Length: 2}, -5.4, -19.8, 0.5004},
		// AT: stack -7.2/-20.4, initiation and two A·T ends.
		{"two at ends", Alignment{Top: "AT", Match: "||", Bottom: "TA", Length: 2}, -2.6, -12.3, 1.0654},
		// Two runs (AC and GT) separated by a mismatch: penalties on A and T.
		{"two runs", Alignment{Top: "ACAGT", Match: "|| ||", Bottom: "TGTCA", Length: 5}, -12.2, -36.7, -1.2634},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FreeEnergy(tt.al, DefaultTemperature)
			assert.InDelta(t, tt.h, e.DeltaH, 1e-9)
			assert.InDelta(t, tt.s, e.DeltaS, 1e-9)
			assert.InDelta(t, tt.dG, e.DeltaG, 1e-4)
		})
	}
}

func TestFreeEnergy_IsolatedMatchesIgnored(t *testing.T) {
	al := Alignment{Top: "ACACA", Match: "| | |", Bottom: "TTTTT", Length: 5, Matches: 3}
	assert.Equal(t, Energy{}, FreeEnergy(al, DefaultTemperature))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		dg     float64
		pct    float64
		length int
		want   Risk
	}{
		{-9, 0, 0, High},
		{0, 75, 6, High},
		{-6, 0, 0, Medium},
		{0, 75, 5, Medium},
		{0, 60, 4, Medium},
		{-5, 0, 0, Low},
		{0, 60, 3, Low},
		{0, 50, 10, Low},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.dg, tt.pct, tt.length), "%v %v %v", tt.dg, tt.pct, tt.length)
	}
}

func TestSelfDimer_ShortRun(t *testing.T) {
	d := SelfDimer(Primer{Name: "p", Sequence: "AAAA"}, DefaultParams())
	assert.Equal(t, Low, d.Risk)

	h := HeteroDimer(Primer{Name: "a", Sequence: "GGGGAAAA"}, Primer{Name: "b", Sequence: "TTTT"}, DefaultParams())
	assert.Equal(t, "a", h.Top)
	assert.Equal(t, "b", h.Bottom)
	assert.InDelta(t, -1.5716, h.Energy.DeltaG, 1e-4)
	assert.Equal(t, Medium, h.Risk)
}

func TestAnalyze(t *testing.T) {
	primers := []Primer{
		{Name: "a", Sequence: "AAAAAAAA"},
		{Name: "b", Sequence: "GGGGCCCCAT"},
		{Name: "c", Sequence: "TTTTTTTT"},
	}
	r, err := Analyze(primers, DefaultParams())
	require.NoError(t, err)
	require.Len(t, r.Self, 3)
	require.Len(t, r.Hetero, 3)

	assert.Equal(t, "a", r.Self[0].Top)
	assert.Equal(t, [2]string{"a", "b"}, [2]string{r.Hetero[0].Top, r.Hetero[0].Bottom})
	assert.Equal(t, [2]string{"a", "c"}, [2]string{r.Hetero[1].Top, r.Hetero[1].Bottom})
	assert.Equal(t, [2]string{"b", "c"}, [2]string{r.Hetero[2].Top, r.Hetero[2].Bottom})

	assert.Equal(t, 16, r.Hetero[1].Alignment.Score)
	assert.Equal(t, High, r.Hetero[1].Risk)
	assert.Equal(t, High, r.Highest())

	assert.Equal(t, Low, Report{}.Highest())
}

func TestAnalyze_MaxPrimers(t *testing.T) {
	primers := []Primer{{Name: "a", Sequence: "ACGT"}, {Name: "b", Sequence: "ACGT"}, {Name: "c", Sequence: "ACGT"}}

	_, err := Analyze(primers, Params{MaxPrimers: 2})
	assert.ErrorIs(t, err, ErrTooManyPrimers)
	assert.Contains(t, err.Error(), "3 given, limit is 2")

	r, err := Analyze(primers, Params{MaxPrimers: 3})
	require.NoError(t, err)
	assert.Len(t, r.Hetero, 3)

	many := make([]Primer, DefaultMaxPrimers+1)
	for i := range many {
		many[i] = Primer{Name: fmt.Sprintf("p%d", i), Sequence: "ACGT"}
	}
	_, err = Analyze(many, Params{})
	assert.ErrorIs(t, err, ErrTooManyPrimers)
}

func TestParsePrimers(t *testing.T) {
	got := ParsePrimers("fwd ACGTACGT\nrev\tttggccaa\n# comment\n\nGGGCCC\nbad 1234\n")
	assert.Equal(t, []Primer{
		{Name: "fwd", Sequence: "ACGTACGT"},
		{Name: "rev", Sequence: "TTGGCCAA"},
		{Name: "P3", Sequence: "GGGCCC"},
	}, got)

	got = ParsePrimers(">f1 forward\nACGT\nACGT\n>r1\nTTTT\n>empty\n")
	assert.Equal(t, []Primer{
		{Name: "f1", Sequence: "ACGTACGT"},
		{Name: "r1", Sequence: "TTTT"},
	}, got)

	assert.Empty(t, ParsePrimers(""))
}

func TestRisk_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Risk{"r": High})
	require.NoError(t, err)
	assert.JSONEq(t, `{"r":"high"}`, string(b))
	assert.Equal(t, "medium", Medium.String())
}
