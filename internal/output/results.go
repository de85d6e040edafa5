package output

import (
	"io"
	"strings"

	"github.com/pzweuj/biotools-sub000/internal/barcode"
	"github.com/pzweuj/biotools-sub000/internal/codon"
	"github.com/pzweuj/biotools-sub000/internal/dimer"
	"github.com/pzweuj/biotools-sub000/internal/orf"
	"github.com/pzweuj/biotools-sub000/internal/restriction"
)

type rowWriter func(tw *TabWriter) error

func writeTable(w io.Writer, columns []string, rows rowWriter) error {
	tw := NewTabWriter(w, columns...)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	if err := rows(tw); err != nil {
		return err
	}
	return tw.Flush()
}

// ORFColumns is the header of WriteORFs.
var ORFColumns = []string{
	"#Record", "Frame", "Strand", "Start", "End", "Length",
	"AA_length", "Start_codon", "Stop_codon", "MW", "Protein",
}

// WriteORFs writes one row per ORF, grouped by record.
func WriteORFs(w io.Writer, results []orf.RecordORFs) error {
	return writeTable(w, ORFColumns, func(tw *TabWriter) error {
		for _, r := range results {
			for _, o := range r.ORFs {
				frame := itoa(o.Frame)
				if o.Frame > 0 {
					frame = "+" + frame
				}
				if err := tw.WriteRow(
					r.Name, frame, o.Strand, itoa(o.Start), itoa(o.End), itoa(o.Length),
					itoa(o.AminoAcids), o.StartCodon, o.StopCodon, ftoa(o.MolecularWeight, 2), o.Protein,
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// SiteColumns is the header of WriteSites.
var SiteColumns = []string{
	"#Enzyme", "Site", "Start", "End", "Strand", "Top_cut", "Bottom_cut", "Overhang",
}

// WriteSites writes one row per cut site.
func WriteSites(w io.Writer, sites []restriction.CutSite) error {
	return writeTable(w, SiteColumns, func(tw *TabWriter) error {
		for _, s := range sites {
			if err := tw.WriteRow(
				s.Enzyme, s.Site, itoa(s.Start), itoa(s.End), s.Strand,
				itoa(s.TopCut), itoa(s.BottomCut), s.Overhang.String(),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteFragments writes one row per fragment.
func WriteFragments(w io.Writer, frags []restriction.Fragment) error {
	return writeTable(w, []string{"#Start", "End", "Length"}, func(tw *TabWriter) error {
		for _, f := range frags {
			if err := tw.WriteRow(itoa(f.Start), itoa(f.End), itoa(f.Length)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteEnzymes writes a catalog listing.
func WriteEnzymes(w io.Writer, enzymes []restriction.Enzyme) error {
	columns := []string{"#Name", "Site", "Notation", "Top_cut", "Bottom_cut", "Overhang"}
	return writeTable(w, columns, func(tw *TabWriter) error {
		for _, e := range enzymes {
			if err := tw.WriteRow(
				e.Name, e.Site, e.Notation(), itoa(e.TopCut), itoa(e.BottomCut), e.Overhang().String(),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteEnzymeCounts writes per-enzyme site counts.
func WriteEnzymeCounts(w io.Writer, counts []restriction.EnzymeCount) error {
	return writeTable(w, []string{"#Enzyme", "Sites"}, func(tw *TabWriter) error {
		for _, c := range counts {
			if err := tw.WriteRow(c.Enzyme, itoa(c.Sites)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteCompatibility writes a ligation check.
func WriteCompatibility(w io.Writer, c restriction.Compatibility) error {
	columns := []string{"#End", "Enzyme", "Found", "Type", "Overhang", "Compatible", "Reason"}
	return writeTable(w, columns, func(tw *TabWriter) error {
		for i, e := range []restriction.End{c.A, c.B} {
			label := "A"
			if i == 1 {
				label = "B"
			}
			if err := tw.WriteRow(
				label, e.Enzyme, yesNo(e.Found), e.Type.String(), e.Sequence, yesNo(c.Compatible), c.Reason,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// DimerColumns is the header of WriteDimers.
var DimerColumns = []string{
	"#Type", "Top", "Bottom", "Score", "Length", "Complementarity",
	"dH", "dS", "dG", "Risk", "Top_seq", "Match", "Bottom_seq",
}

// WriteDimers writes self dimers followed by hetero dimers.
func WriteDimers(w io.Writer, r dimer.Report) error {
	return writeTable(w, DimerColumns, func(tw *TabWriter) error {
		for _, group := range []struct {
			kind string
			list []dimer.Dimer
		}{{"self", r.Self}, {"hetero", r.Hetero}} {
			for _, d := range group.list {
				al := d.Alignment
				if err := tw.WriteRow(
					group.kind, d.Top, d.Bottom, itoa(al.Score), itoa(al.Length),
					ftoa(d.Complementarity, 1), ftoa(d.Energy.DeltaH, 2), ftoa(d.Energy.DeltaS, 2),
					ftoa(d.Energy.DeltaG, 2), d.Risk.String(),
					al.Top, strings.ReplaceAll(al.Match, " ", "."), al.Bottom,
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteIssues writes index conflict issues.
func WriteIssues(w io.Writer, issues []barcode.Issue) error {
	columns := []string{"#Severity", "Kind", "Slot", "Rows", "Names", "Sequences", "Message"}
	return writeTable(w, columns, func(tw *TabWriter) error {
		for _, is := range issues {
			if err := tw.WriteRow(
				is.Severity.String(), is.Kind.String(), is.Slot.String(), joinInts(is.Rows, ","),
				strings.Join(is.Names, ","), strings.Join(is.Sequences, ","), is.Message,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteUsage writes codon usage for every codon.
func WriteUsage(w io.Writer, u codon.Usage) error {
	columns := []string{"#Codon", "Amino_acid", "Count", "Per_thousand", "Fraction", "RSCU"}
	return writeTable(w, columns, func(tw *TabWriter) error {
		for _, c := range u.Codons {
			if err := tw.WriteRow(
				c.Codon, c.Residue, itoa(c.Count), ftoa(c.PerMille, 2), ftoa(c.Fraction, 3), ftoa(c.RSCU, 3),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
