package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/enzymedb"
	"github.com/pzweuj/biotools-sub000/internal/output"
	"github.com/pzweuj/biotools-sub000/internal/restriction"
)

// enzymeDBPath returns the configured custom enzyme database path.
func enzymeDBPath() string {
	return expandHome(viper.GetString("enzymes.db"))
}

// openStore opens (creating if needed) the custom enzyme database.
func openStore() (*enzymedb.Store, error) {
	store, err := enzymedb.Open(enzymeDBPath())
	if err != nil {
		return nil, err
	}
	store.SetLogger(logger)
	return store, nil
}

// loadCatalog returns the built-in enzymes merged with the custom database.
// Without a database file the built-in catalog is used as is.
func loadCatalog() (*restriction.Catalog, error) {
	path := enzymeDBPath()
	if _, err := os.Stat(path); err != nil {
		logger.Debug("no custom enzyme database", zap.String("path", path))
		return restriction.DefaultCatalog, nil
	}
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Catalog()
}

// DigestResult is the digest of one record.
type DigestResult struct {
	Name string `json:"name"`
	restriction.Result
	Counts []restriction.EnzymeCount `json:"counts"`
}

func newDigestCmd() *cobra.Command {
	var (
		input    string
		enzymes  []string
		circular bool
	)
	cmd := &cobra.Command{
		Use:   "digest [sequence...]",
		Short: "Find restriction sites and digest fragments",
		Long: `Search both strands for the recognition sites of the given enzymes and
report cut positions and the resulting fragments. Coordinates are 1-based;
cut positions count the bases before the cut on the top strand.`,
		Example: `  biotools digest -e EcoRI,BamHI -i plasmid.fa --circular
  biotools digest -e BsaI AGGTCTCAAAAACCC`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(enzymes) == 0 {
				return usageErrorf("at least one enzyme is required (--enzymes)")
			}
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			selected, err := catalog.Resolve(enzymes)
			if err != nil {
				return usageError{err}
			}
			records, err := readRecords(cmd, args, input)
			if err != nil {
				return err
			}

			params := restriction.Params{Enzymes: selected, Circular: circular}
			results := make([]DigestResult, 0, len(records))
			for _, r := range records {
				res := restriction.Digest(r.Sequence, params)
				results = append(results, DigestResult{
					Name:   r.Name,
					Result: res,
					Counts: restriction.CountSites(selected, res.Sites),
				})
			}

			return out.write(cmd, results, func(w io.Writer) error {
				for i, r := range results {
					if len(results) > 1 {
						if i > 0 {
							fmt.Fprintln(w)
						}
						fmt.Fprintf(w, "## %s (%d bp)\n", r.Name, r.Length)
					}
					if err := output.WriteSites(w, r.Sites); err != nil {
						return err
					}
					fmt.Fprintln(w)
					if err := output.WriteFragments(w, r.Fragments); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input FASTA/TSV file ('-' for stdin)")
	cmd.Flags().StringSliceVarP(&enzymes, "enzymes", "e", nil, "Comma separated enzyme names")
	cmd.Flags().BoolVar(&circular, "circular", false, "Treat sequences as circular")
	return cmd
}

func newLigateCmd() *cobra.Command {
	var circular bool
	cmd := &cobra.Command{
		Use:   "ligate <sequence-a> <enzyme-a> <sequence-b> <enzyme-b>",
		Short: "Check whether two digested ends can be ligated",
		Long: `Cut each sequence at the first site of its enzyme and compare the
resulting ends. Sticky ends ligate when they have the same overhang type and
length and are reverse complements of each other.`,
		Example: `  biotools ligate AGGATCCA BamHI AAGATCTA BglII`,
		Args:    exactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			ea, okA := catalog.Lookup(args[1])
			eb, okB := catalog.Lookup(args[3])
			if !okA || !okB {
				var missing []string
				if !okA {
					missing = append(missing, args[1])
				}
				if !okB {
					missing = append(missing, args[3])
				}
				_, err := catalog.Resolve(missing)
				return usageError{err}
			}

			c := restriction.Ligate(args[0], ea, args[2], eb, circular)
			return out.write(cmd, c, func(w io.Writer) error {
				return output.WriteCompatibility(w, c)
			})
		},
	}
	cmd.Flags().BoolVar(&circular, "circular", false, "Treat sequences as circular")
	return cmd
}

func newEnzymesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enzymes [name...]",
		Short: "List and manage restriction enzymes",
		Long: `List the enzyme catalog: the built-in enzymes plus custom enzymes stored
in the DuckDB database at enzymes.db (default ~/.biotools/enzymes.duckdb).
Custom enzymes override built-in ones of the same name.

Enzymes are written in cut notation: G^AATTC (same cut on both strands),
GCA^GT_GC (top ^ and bottom _ marks) or GGTCTC(1/5) (cuts outside the site).`,
		Example: `  biotools enzymes
  biotools enzymes EcoRI KpnI
  biotools enzymes set MyEnzI 'GACNN^NNGTC'
  biotools enzymes import my_enzymes.tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			list := catalog.All()
			if len(args) > 0 {
				if list, err = catalog.Resolve(args); err != nil {
					return usageError{err}
				}
			}
			return out.write(cmd, list, func(w io.Writer) error {
				return output.WriteEnzymes(w, list)
			})
		},
	}

	cmd.AddCommand(newEnzymesSetCmd())
	cmd.AddCommand(newEnzymesDeleteCmd())
	cmd.AddCommand(newEnzymesImportCmd())
	cmd.AddCommand(newEnzymesFetchCmd())
	return cmd
}

func newEnzymesSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <notation>",
		Short: "Add or replace a custom enzyme",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := restriction.ParseEnzyme(args[0], args[1])
			if err != nil {
				return usageError{err}
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Put(e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", e.Name, e.Notation(), store.Path())
			return nil
		},
	}
}

func newEnzymesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a custom enzyme",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Delete(args[0]); err != nil {
				if errors.Is(err, enzymedb.ErrNotFound) {
					return fmt.Errorf("%s is not a custom enzyme", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", args[0], store.Path())
			return nil
		},
	}
}

func newEnzymesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.tsv>",
		Short: "Import custom enzymes from a name<TAB>notation file",
		Long: `Import custom enzymes from a tab-delimited file with one enzyme per line:
name, then cut notation. Lines starting with '#' and invalid rows are skipped.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importEnzymes(cmd, args[0])
		},
	}
}

func importEnzymes(cmd *cobra.Command, path string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	n, err := store.ImportTSV(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d enzymes into %s\n", n, store.Path())
	return nil
}
