// Package main provides the biotools command-line tool.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is built from the config once flags are parsed.
var logger = zap.NewNop()

// usageError marks errors caused by bad command-line input.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var uerr usageError
	if errors.As(err, &uerr) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", root.Name())
		return ExitUsage
	}
	return ExitError
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "biotools",
		Short: "Sequence tools for molecular biology",
		Long: `biotools - sequence utilities for the bench

Reverse complement and translate sequences, find open reading frames,
map restriction sites, score primer dimers and check sequencing index sheets.
Results are tab-delimited by default; use --format json for JSON.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			l, err := newLogger(viper.GetString("log.level"), verbose)
			if err != nil {
				return usageError{err}
			}
			logger = l
			return nil
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.biotools.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages to stderr")
	root.PersistentFlags().StringVarP(&out.format, "format", "f", "tab", "Output format: tab, json")
	root.PersistentFlags().StringVarP(&out.path, "output", "o", "", "Output file (default: stdout)")

	root.AddCommand(
		newRevCompCmd(),
		newTranscribeCmd(),
		newTranslateCmd(),
		newUsageCmd(),
		newConvertCmd(),
		newORFCmd(),
		newDigestCmd(),
		newLigateCmd(),
		newEnzymesCmd(),
		newDimerCmd(),
		newIndexCmd(),
		newHGVSCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
	return root
}

func setDefaults() {
	for key, k := range configKeys {
		viper.SetDefault(key, k.def)
	}
}

// initConfig loads ~/.biotools.yaml (or cfgFile) and BIOTOOLS_* environment
// variables on top of the defaults. A missing config file is not an error.
func initConfig(cfgFile string) error {
	setDefaults()
	viper.SetEnvPrefix("BIOTOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".biotools")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// newLogger builds a production logger at the given level. verbose forces
// debug.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
