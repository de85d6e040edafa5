package main

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/pzweuj/biotools-sub000/internal/barcode"
	"github.com/pzweuj/biotools-sub000/internal/codon"
	"github.com/pzweuj/biotools-sub000/internal/dimer"
	"github.com/pzweuj/biotools-sub000/internal/hgvs"
	"github.com/pzweuj/biotools-sub000/internal/orf"
	"github.com/pzweuj/biotools-sub000/internal/seq"
)

// configKey is a recognized configuration key. parse validates a value
// given to "config set" and returns it in the type stored in the file.
type configKey struct {
	def   any
	parse func(string) (any, error)
}

var configKeys = map[string]configKey{
	"log.level":              {"info", parseLogLevel},
	"orf.min_length":         {orf.DefaultParams().MinLength, positiveInt},
	"orf.start_codons":       {orf.DefaultStartCodon, parseStartCodons},
	"orf.genetic_code":       {"standard", parseGeneticCode},
	"orf.workers":            {0, nonNegativeInt},
	"index.max_entries":      {barcode.DefaultMaxEntries, positiveInt},
	"index.similar_distance": {barcode.DefaultSimilarDistance, nonNegativeInt},
	"dimer.temperature":      {dimer.DefaultTemperature, parseTemperature},
	"dimer.max_primers":      {dimer.DefaultMaxPrimers, positiveInt},
	"hgvs.endpoint":          {hgvs.DefaultEndpoint, parseEndpoint},
	"hgvs.timeout":           {hgvs.DefaultTimeout.String(), parseTimeout},
	"server.addr":            {"localhost:8080", parseAddr},
	"enzymes.db":             {"~/.biotools/enzymes.duckdb", nonEmpty},
}

func configKeyNames() []string {
	names := make([]string, 0, len(configKeys))
	for k := range configKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func lookupConfigKey(key string) (configKey, error) {
	k, ok := configKeys[strings.ToLower(key)]
	if !ok {
		return configKey{}, usageErrorf("unknown config key %q (known keys: %s)", key, strings.Join(configKeyNames(), ", "))
	}
	return k, nil
}

func parseLogLevel(v string) (any, error) {
	lvl, err := zapcore.ParseLevel(v)
	if err != nil {
		return nil, err
	}
	return lvl.String(), nil
}

func positiveInt(v string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", v)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%d must be positive", n)
	}
	return n, nil
}

func nonNegativeInt(v string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", v)
	}
	if n < 0 {
		return nil, fmt.Errorf("%d must not be negative", n)
	}
	return n, nil
}

func parseStartCodons(v string) (any, error) {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	for _, f := range fields {
		if len(f) != 3 || len(seq.Clean(f)) != 3 {
			return nil, fmt.Errorf("%q is not a codon", f)
		}
	}
	return strings.Join(orf.ParseStartCodons(v), ","), nil
}

func parseGeneticCode(v string) (any, error) {
	c, err := codon.ParseCode(v)
	if err != nil {
		return nil, err
	}
	return c.String(), nil
}

func parseTemperature(v string) (any, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", v)
	}
	if t <= 0 {
		return nil, fmt.Errorf("temperature must be above 0 K")
	}
	return t, nil
}

// parseEndpoint accepts an http(s) URL, or "" to disable normalization.
func parseEndpoint(v string) (any, error) {
	if v == "" {
		return v, nil
	}
	u, err := url.Parse(v)
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%q is not an http(s) URL", v)
	}
	return v, nil
}

func parseTimeout(v string) (any, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return nil, err
	}
	if d <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}
	return d.String(), nil
}

func parseAddr(v string) (any, error) {
	if _, _, err := net.SplitHostPort(v); err != nil {
		return nil, err
	}
	return v, nil
}

func nonEmpty(v string) (any, error) {
	if strings.TrimSpace(v) == "" {
		return nil, fmt.Errorf("value must not be empty")
	}
	return v, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage biotools configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.biotools.yaml.
Only known keys are accepted, and values are checked before they are written.`,
		Example: `  biotools config                          # show effective config
  biotools config set orf.min_length 300   # raise the ORF length cutoff
  biotools config set orf.genetic_code 11  # stored as "bacterial"
  biotools config get hgvs.endpoint        # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "# No configuration set. Config file: ~/.biotools.yaml")
		return nil
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	k, err := lookupConfigKey(key)
	if err != nil {
		return err
	}
	key = strings.ToLower(key)
	parsed, err := k.parse(value)
	if err != nil {
		return usageErrorf("invalid value for %s: %v", key, err)
	}
	viper.Set(key, parsed)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".biotools.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v in %s\n", key, parsed, cfgFile)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	if _, err := lookupConfigKey(key); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), viper.Get(key))
	return nil
}
