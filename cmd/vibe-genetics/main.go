// Package main provides the vibe-genetics command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vibe-genetics/internal/catalog"
	"github.com/inodb/vibe-genetics/internal/cross"
	"github.com/inodb/vibe-genetics/internal/equilibrium"
	"github.com/inodb/vibe-genetics/internal/output"
	"github.com/inodb/vibe-genetics/internal/sequence"
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

const (
	configName = ".vibe-genetics"
	envPrefix  = "VIBE_GENETICS"
)

// Config keys.
const (
	keyOffspring   = "cross.offspring"
	keyPopulation  = "simulate.population"
	keyGenerations = "simulate.generations"
	keyOrganism    = "genome.organism"
	keyCatalog     = "catalog.path"
	keyFormat      = "output.format"
)

// usageError marks errors caused by invalid command-line usage.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// app carries state shared by all subcommands.
type app struct {
	v       *viper.Viper
	logger  *zap.Logger
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		v:      viper.New(),
		logger: zap.NewNop(),
		stdout: stdout,
		stderr: stderr,
	}
	root := a.newRootCmd()
	root.SetArgs(args)

	err := root.Execute()
	_ = a.logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsage
	}
	return ExitError
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vibe-genetics",
		Short: "Genetics calculators: crosses, equilibrium, sequences, traits",
		Long: `vibe-genetics - Genetics computation engine

Enumerate Punnett squares, simulate Hardy-Weinberg equilibrium under selection
and mutation, analyze nucleotide composition and genome profiles, and predict
simply-dominant traits.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default: ~/.vibe-genetics.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Verbose logging to stderr")
	pf.StringP("format", "f", "tab", "Output format: tab, json, yaml")
	pf.String("catalog", "", "DuckDB reference catalog for organisms and traits")
	_ = a.v.BindPFlag(keyFormat, pf.Lookup("format"))
	_ = a.v.BindPFlag(keyCatalog, pf.Lookup("catalog"))

	a.v.SetDefault(keyOffspring, cross.DefaultOffspringCount)
	a.v.SetDefault(keyPopulation, equilibrium.DefaultPopulationSize)
	a.v.SetDefault(keyGenerations, equilibrium.DefaultGenerations)
	a.v.SetDefault(keyOrganism, sequence.DefaultOrganism)

	root.AddCommand(
		a.newCrossCmd(),
		a.newSimulateCmd(),
		a.newSequenceCmd(),
		a.newGenomeCmd(),
		a.newTraitsCmd(),
		a.newCatalogCmd(),
		a.newConfigCmd(),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup() error {
	a.logger = newLogger(a.stderr, a.verbose)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file means defaults apply; `config set` creates it.
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config: %w", err)
		}
	} else {
		a.logger.Debug("loaded config", zap.String("file", a.v.ConfigFileUsed()))
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// writer returns an output writer for the configured format.
func (a *app) writer() (*output.Writer, error) {
	format, err := output.ParseFormat(a.v.GetString(keyFormat))
	if err != nil {
		return nil, &usageError{err: err}
	}
	return output.NewWriter(a.stdout, format), nil
}

// openCatalog opens and seeds the configured catalog. Returns nil when no
// catalog is configured.
func (a *app) openCatalog() (*catalog.Store, error) {
	path := a.v.GetString(keyCatalog)
	if path == "" {
		return nil, nil
	}
	return a.openCatalogAt(path)
}

func (a *app) openCatalogAt(path string) (*catalog.Store, error) {
	store, err := catalog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	store.SetLogger(a.logger)
	if _, err := store.Seed(); err != nil {
		store.Close()
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}
	a.logger.Debug("using catalog", zap.String("path", path))
	return store, nil
}

// defaultCatalogPath is used by the catalog command when none is configured.
func defaultCatalogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".vibe-genetics", "catalog.duckdb"), nil
}

// usageArgs wraps a cobra argument check so failures exit with ExitUsage.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
