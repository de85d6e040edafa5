package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pzweuj/biotools-sub000/internal/barcode"
	"github.com/pzweuj/biotools-sub000/internal/hgvs"
	"github.com/pzweuj/biotools-sub000/internal/server"
)

// newHGVSClient returns a client for hgvs.endpoint, or nil when the
// endpoint is empty.
func newHGVSClient() *hgvs.Client {
	endpoint := viper.GetString("hgvs.endpoint")
	if endpoint == "" {
		return nil
	}
	c := hgvs.NewClient(endpoint, viper.GetDuration("hgvs.timeout"))
	c.SetLogger(logger)
	return c
}

func newHGVSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hgvs <descriptor>",
		Short: "Normalize an HGVS variant description",
		Long: `Send an HGVS variant description to the normalization service at
hgvs.endpoint and print its JSON response.`,
		Example: `  biotools hgvs 'NM_003002.2:c.274G>T'
  biotools config set hgvs.endpoint https://mutalyzer.example.org/api/normalize`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newHGVSClient()
			if client == nil {
				return usageErrorf("hgvs.endpoint is not configured")
			}
			body, err := client.Normalize(cmd.Context(), args[0])

			var herr *hgvs.HTTPError
			if errors.As(err, &herr) {
				fmt.Fprintln(cmd.OutOrStdout(), herr.Body)
				return err
			}
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := json.Indent(&buf, body, "", "  "); err != nil {
				return err
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools as a JSON HTTP API",
		Long: `Start an HTTP server exposing every tool under /api. The server stops
gracefully on SIGINT or SIGTERM.`,
		Example: `  biotools serve --addr :8080
  curl -d '{"sequence":"ATGAAATAG"}' localhost:8080/api/sequence/revcomp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			orfParams, err := orfParamsFromConfig()
			if err != nil {
				return usageError{err}
			}

			srv := server.New(server.Options{
				Catalog:    catalog,
				HGVS:       newHGVSClient(),
				ORF:        orfParams,
				ORFWorkers: viper.GetInt("orf.workers"),
				Index: barcode.Params{
					MaxEntries:      viper.GetInt("index.max_entries"),
					SimilarDistance: viper.GetInt("index.similar_distance"),
				},
				Dimer:  dimerParamsFromConfig(),
				Logger: logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, viper.GetString("server.addr"))
		},
	}
	cmd.Flags().String("addr", "localhost:8080", "Listen address")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
