package main

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/codon"
	"github.com/pzweuj/biotools-sub000/internal/output"
	"github.com/pzweuj/biotools-sub000/internal/seq"
)

func newRevCompCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "revcomp [sequence...]",
		Short: "Reverse complement DNA sequences",
		Example: `  biotools revcomp ATGAAATAG
  biotools revcomp -i reads.fa.gz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(cmd, args, input)
			if err != nil {
				return err
			}
			for i := range records {
				records[i].Sequence = seq.ReverseComplement(records[i].Sequence)
			}
			return writeRecords(cmd, records)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input FASTA/TSV file ('-' for stdin)")
	return cmd
}

func newTranscribeCmd() *cobra.Command {
	var (
		input   string
		reverse bool
	)
	cmd := &cobra.Command{
		Use:   "transcribe [sequence...]",
		Short: "Transcribe DNA to RNA (or RNA to DNA with --reverse)",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(cmd, args, input)
			if err != nil {
				return err
			}
			for i := range records {
				if reverse {
					records[i].Sequence = seq.ReverseTranscribe(records[i].Sequence)
				} else {
					records[i].Sequence = seq.Transcribe(records[i].Sequence)
				}
			}
			return writeRecords(cmd, records)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input FASTA/TSV file ('-' for stdin)")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Reverse transcribe RNA to DNA")
	return cmd
}

// Translation is one translated frame of a record.
type Translation struct {
	Name            string  `json:"name"`
	Frame           int     `json:"frame"`
	Protein         string  `json:"protein"`
	MolecularWeight float64 `json:"molecular_weight"`
}

func newTranslateCmd() *cobra.Command {
	var (
		input    string
		frame    int
		sixFrame bool
		code     string
		stopMode string
	)
	cmd := &cobra.Command{
		Use:   "translate [sequence...]",
		Short: "Translate nucleotide sequences to protein",
		Example: `  biotools translate ATGAAATAG
  biotools translate --frame -1 CTATTTCAT
  biotools translate --six-frame --code vertebrate-mitochondrial -i cds.fa`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codon.ParseCode(code)
			if err != nil {
				return usageError{err}
			}
			mode, err := codon.ParseStopMode(stopMode)
			if err != nil {
				return usageError{err}
			}
			if frame == 0 || frame < -3 || frame > 3 {
				return usageErrorf("frame must be 1..3 or -1..-3, got %d", frame)
			}
			frames := []int{frame}
			if sixFrame {
				frames = []int{1, 2, 3, -1, -2, -3}
			}

			records, err := readRecords(cmd, args, input)
			if err != nil {
				return err
			}
			var results []Translation
			for _, r := range records {
				for _, f := range frames {
					t := Translation{Name: r.Name, Frame: f, Protein: c.TranslateFrame(r.Sequence, f, mode)}
					if mode != codon.StopLabel {
						t.MolecularWeight = codon.MolecularWeight(t.Protein)
					}
					results = append(results, t)
				}
			}

			return out.write(cmd, results, func(w io.Writer) error {
				tw := output.NewTabWriter(w, "#Name", "Frame", "Protein", "MW")
				if err := tw.WriteHeader(); err != nil {
					return err
				}
				for _, t := range results {
					fr := strconv.Itoa(t.Frame)
					if t.Frame > 0 {
						fr = "+" + fr
					}
					mw := ""
					if t.MolecularWeight > 0 {
						mw = strconv.FormatFloat(t.MolecularWeight, 'f', 2, 64)
					}
					if err := tw.WriteRow(t.Name, fr, t.Protein, mw); err != nil {
						return err
					}
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input FASTA/TSV file ('-' for stdin)")
	cmd.Flags().IntVar(&frame, "frame", 1, "Reading frame: 1..3 forward, -1..-3 reverse")
	cmd.Flags().BoolVar(&sixFrame, "six-frame", false, "Translate all six frames")
	cmd.Flags().StringVar(&code, "code", "standard", "Genetic code name or NCBI table id")
	cmd.Flags().StringVar(&stopMode, "stop-mode", "marker", "Stop codon rendering: marker, label, truncate")
	return cmd
}

func newUsageCmd() *cobra.Command {
	var (
		input string
		code  string
	)
	cmd := &cobra.Command{
		Use:   "usage [sequence...]",
		Short: "Count codon usage of coding sequences",
		Long: `Count codon usage over all records. Each record is read in frame +1 and
a trailing partial codon is ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codon.ParseCode(code)
			if err != nil {
				return usageError{err}
			}
			records, err := readRecords(cmd, args, input)
			if err != nil {
				return err
			}
			var cds []byte
			for _, r := range records {
				s := r.Sequence
				cds = append(cds, s[:len(s)-len(s)%3]...)
			}
			u := c.CountUsage(string(cds))
			return out.write(cmd, u, func(w io.Writer) error {
				return output.WriteUsage(w, u)
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input FASTA/TSV file ('-' for stdin)")
	cmd.Flags().StringVar(&code, "code", "standard", "Genetic code name or NCBI table id")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var (
		input string
		from  string
		to    string
		width int
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert sequence records between FASTA and TSV",
		Example: `  biotools convert -i seqs.fa --to tsv
  cat seqs.tsv | biotools convert --from tsv --to fasta --width 80`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromFormat, err := seq.ParseFormat(from)
			if err != nil {
				return usageError{err}
			}
			toFormat, err := seq.ParseFormat(to)
			if err != nil {
				return usageError{err}
			}

			var records []seq.Record
			if input != "" && input != "-" {
				records, err = seq.LoadFile(input)
			} else {
				var text string
				text, err = readText(cmd, nil, input)
				records = seq.Parse(text, fromFormat)
			}
			if err != nil {
				return err
			}
			logger.Debug("converting records", zap.Int("records", len(records)), zap.Stringer("to", toFormat))

			if out.path != "" {
				return writeFile(out.path, func(w io.Writer) error {
					return seq.Write(w, records, toFormat, width)
				})
			}
			return seq.Write(cmd.OutOrStdout(), records, toFormat, width)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (format from extension; '-' for stdin)")
	cmd.Flags().StringVar(&from, "from", "fasta", "Input format for stdin: fasta, tsv")
	cmd.Flags().StringVar(&to, "to", "fasta", "Output format: fasta, tsv")
	cmd.Flags().IntVar(&width, "width", seq.DefaultLineWidth, "FASTA line width")
	return cmd
}
