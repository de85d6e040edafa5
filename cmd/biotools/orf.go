package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/codon"
	"github.com/pzweuj/biotools-sub000/internal/orf"
	"github.com/pzweuj/biotools-sub000/internal/output"
)

// orfParamsFromConfig builds search parameters from the orf.* config keys.
func orfParamsFromConfig() (orf.Params, error) {
	code, err := codon.ParseCode(viper.GetString("orf.genetic_code"))
	if err != nil {
		return orf.Params{}, err
	}
	return orf.Params{
		MinLength:   viper.GetInt("orf.min_length"),
		StartCodons: orf.ParseStartCodons(viper.GetString("orf.start_codons")),
		Code:        code,
		Strand:      orf.Both,
		StopMode:    codon.StopMarker,
	}, nil
}

func newORFCmd() *cobra.Command {
	var (
		input    string
		strand   string
		stopMode string
	)
	cmd := &cobra.Command{
		Use:   "orf [sequence...]",
		Short: "Find open reading frames in all six frames",
		Long: `Find open reading frames in all six frames of each record.

An ORF runs from the first start codon in a frame to the next in-frame stop
codon; after a stop the search resumes at the next start. Lengths are in
nucleotides, start and stop included. Results are sorted longest first.`,
		Example: `  biotools orf -i contigs.fa --min-length 300
  biotools orf --start-codons ATG,GTG,TTG --code 11 -i genome.fa.gz
  biotools orf --min-length 9 ATGAAATAG`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := orfParamsFromConfig()
			if err != nil {
				return usageError{err}
			}
			if p.Strand, err = orf.ParseStrand(strand); err != nil {
				return usageError{err}
			}
			if p.StopMode, err = codon.ParseStopMode(stopMode); err != nil {
				return usageError{err}
			}

			records, err := readRecords(cmd, args, input)
			if err != nil {
				return err
			}

			f := orf.NewFinder(p)
			f.SetWorkers(viper.GetInt("orf.workers"))
			f.SetLogger(logger)
			results, err := f.FindAll(cmd.Context(), records)
			if err != nil {
				return fmt.Errorf("finding ORFs: %w", err)
			}

			total := 0
			for _, r := range results {
				total += len(r.ORFs)
			}
			logger.Info("ORF search complete",
				zap.Int("records", len(results)),
				zap.Int("orfs", total),
				zap.Int("min_length", p.MinLength))

			return out.write(cmd, results, func(w io.Writer) error {
				return output.WriteORFs(w, results)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "Input FASTA/TSV file ('-' for stdin)")
	flags.Int("min-length", orf.DefaultParams().MinLength, "Minimum ORF length in nucleotides")
	flags.String("start-codons", orf.DefaultStartCodon, "Comma separated start codons")
	flags.String("code", "standard", "Genetic code name or NCBI table id")
	flags.Int("workers", 0, "Worker goroutines (0 = number of CPUs)")
	flags.StringVar(&strand, "strand", "both", "Strands to search: both, forward, reverse")
	flags.StringVar(&stopMode, "stop-mode", "marker", "Stop codon rendering: marker, label, truncate")

	viper.BindPFlag("orf.min_length", flags.Lookup("min-length"))
	viper.BindPFlag("orf.start_codons", flags.Lookup("start-codons"))
	viper.BindPFlag("orf.genetic_code", flags.Lookup("code"))
	viper.BindPFlag("orf.workers", flags.Lookup("workers"))
	return cmd
}
