package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/barcode"
	"github.com/pzweuj/biotools-sub000/internal/dimer"
	"github.com/pzweuj/biotools-sub000/internal/output"
)

func newDimerCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "dimer [primer...]",
		Short: "Score self- and cross-dimers of primers",
		Long: `Find the strongest antiparallel pairing of every primer with itself and
with every other primer, estimate its free energy with nearest-neighbor
parameters and classify the dimer risk as low, medium or high.

Primers are given as arguments, one "name sequence" pair per line in a file
or on stdin, or as FASTA.`,
		Example: `  biotools dimer ATCGCGAT GGGGAAAA
  biotools dimer -i primers.txt --temperature 310.15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args, input)
			if err != nil {
				return err
			}
			primers := dimer.ParsePrimers(text)
			if len(primers) == 0 {
				return usageErrorf("no primers given")
			}

			report, err := dimer.Analyze(primers, dimerParamsFromConfig())
			if err != nil {
				return usageError{err}
			}
			logger.Info("dimer analysis complete",
				zap.Int("primers", len(primers)),
				zap.Stringer("highest_risk", report.Highest()))

			return out.write(cmd, report, func(w io.Writer) error {
				return output.WriteDimers(w, report)
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Primer list file ('-' for stdin)")
	cmd.Flags().Float64("temperature", dimer.DefaultTemperature, "Temperature in kelvin for free energy")
	cmd.Flags().Int("max-primers", dimer.DefaultMaxPrimers, "Maximum number of primers")
	viper.BindPFlag("dimer.temperature", cmd.Flags().Lookup("temperature"))
	viper.BindPFlag("dimer.max_primers", cmd.Flags().Lookup("max-primers"))
	return cmd
}

// dimerParamsFromConfig builds scoring parameters from the dimer.* keys.
func dimerParamsFromConfig() dimer.Params {
	return dimer.Params{
		Temperature: viper.GetFloat64("dimer.temperature"),
		MaxPrimers:  viper.GetInt("dimer.max_primers"),
	}
}

func newIndexCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "index [sheet-line...]",
		Short: "Check a sequencing index sheet for conflicts",
		Long: `Check index (barcode) sequences for duplicates, reverse complements,
reversed sequences and near-identical pairs. Each sheet line holds a sample
name, index1 and an optional index2, separated by tabs, commas or spaces.

Exits with status 1 when error-severity conflicts are found.`,
		Example: `  biotools index -i samplesheet.csv
  biotools index "s1 AAACCCGG" "s2 CCGGGTTT"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args, input)
			if err != nil {
				return err
			}
			entries := barcode.ParseSheet(text)
			if len(entries) == 0 {
				return usageErrorf("no index entries given")
			}

			issues := barcode.Check(entries, barcode.Params{
				MaxEntries:      viper.GetInt("index.max_entries"),
				SimilarDistance: viper.GetInt("index.similar_distance"),
			})
			if issues == nil {
				issues = []barcode.Issue{}
			}
			if err := out.write(cmd, issues, func(w io.Writer) error {
				return output.WriteIssues(w, issues)
			}); err != nil {
				return err
			}

			errs := 0
			for _, is := range issues {
				if is.Severity == barcode.Error {
					errs++
				}
			}
			logger.Info("index check complete",
				zap.Int("entries", len(entries)),
				zap.Int("issues", len(issues)),
				zap.Int("errors", errs))
			if errs > 0 {
				return fmt.Errorf("index sheet has %d error-severity conflicts", errs)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Index sheet file ('-' for stdin)")
	cmd.Flags().Int("max-entries", barcode.DefaultMaxEntries, "Maximum number of entries")
	cmd.Flags().Int("similar-distance", barcode.DefaultSimilarDistance, "Report pairs within this Hamming distance")
	viper.BindPFlag("index.max_entries", cmd.Flags().Lookup("max-entries"))
	viper.BindPFlag("index.similar_distance", cmd.Flags().Lookup("similar-distance"))
	return cmd
}
