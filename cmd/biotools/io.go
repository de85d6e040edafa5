package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pzweuj/biotools-sub000/internal/output"
	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// outputOptions hold the persistent --format and --output flags.
type outputOptions struct {
	format string
	path   string
}

var out outputOptions

// write renders v as JSON or through the tab writer fn, to --output or the
// command's stdout.
func (o outputOptions) write(cmd *cobra.Command, v any, tab func(io.Writer) error) error {
	var render func(io.Writer) error
	switch strings.ToLower(o.format) {
	case "json":
		render = func(w io.Writer) error { return output.WriteJSON(w, v) }
	case "tab", "":
		render = tab
	default:
		return usageErrorf("unknown output format %q (use tab or json)", o.format)
	}

	if o.path == "" {
		return render(cmd.OutOrStdout())
	}
	return writeFile(o.path, render)
}

// writeFile creates path and writes it through render.
func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// readText returns the text of inputPath, the positional args (one per
// line) or stdin, in that order of preference.
func readText(cmd *cobra.Command, args []string, inputPath string) (string, error) {
	switch {
	case inputPath == "-":
		// fall through to stdin
	case inputPath != "":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, "\n"), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// readRecords loads sequence records from a file (FASTA, TSV or pasted
// text, optionally gzipped), from the positional args or from stdin.
func readRecords(cmd *cobra.Command, args []string, inputPath string) ([]seq.Record, error) {
	if inputPath != "" && inputPath != "-" {
		return seq.LoadFile(inputPath)
	}
	text, err := readText(cmd, args, inputPath)
	if err != nil {
		return nil, err
	}
	records := seq.ParseText(text)
	if len(records) == 0 {
		return nil, usageErrorf("no sequence given")
	}
	return records, nil
}

// writeRecords writes records as name/sequence rows or JSON.
func writeRecords(cmd *cobra.Command, records []seq.Record) error {
	return out.write(cmd, records, func(w io.Writer) error {
		tw := output.NewTabWriter(w, "#Name", "Sequence")
		if err := tw.WriteHeader(); err != nil {
			return err
		}
		for _, r := range records {
			if err := tw.WriteRow(r.Name, r.Sequence); err != nil {
				return err
			}
		}
		return tw.Flush()
	})
}
