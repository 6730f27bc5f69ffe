package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-genetics/internal/output"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-genetics configuration",
		Long:  "Show the effective settings or get and set one key. Settings live in ~/.vibe-genetics.yaml unless --config names another file.",
		Example: `  vibe-genetics config                               # show all config
  vibe-genetics config set cross.offspring 400       # change the default offspring count
  vibe-genetics config set catalog.path ~/catalog.duckdb
  vibe-genetics config get genome.organism           # get a value`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	}

	cmd.AddCommand(a.newConfigSetCmd())
	cmd.AddCommand(a.newConfigGetCmd())

	return cmd
}

func (a *app) newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigSet(args[0], args[1])
		},
	}
}

func (a *app) newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigGet(args[0])
		},
	}
}

func (a *app) runConfigShow() error {
	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(a.stdout, "# %s\n", used)
	} else {
		fmt.Fprintln(a.stdout, "# defaults (no config file)")
	}

	out, err := yaml.Marshal(a.v.AllSettings())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = a.stdout.Write(out)
	return err
}

// configValue converts a command-line value to the type the key is read as.
func configValue(key, value string) (any, error) {
	switch key {
	case keyOffspring, keyPopulation, keyGenerations:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, usagef("%s takes an integer, got %q", key, value)
		}
		return n, nil
	case keyFormat:
		f, err := output.ParseFormat(value)
		if err != nil {
			return nil, &usageError{err: err}
		}
		return string(f), nil
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	return value, nil
}

func (a *app) runConfigSet(key, value string) error {
	v, err := configValue(key, value)
	if err != nil {
		return err
	}
	a.v.Set(key, v)

	path := a.cfgFile
	if path == "" {
		path = a.v.ConfigFileUsed()
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, configName+".yaml")
	}

	if err := a.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Debug("config updated", zap.String("key", key), zap.String("file", path))
	fmt.Fprintf(a.stdout, "%s = %v (%s)\n", key, v, path)
	return nil
}

func (a *app) runConfigGet(key string) error {
	if !a.v.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(a.stdout, a.v.Get(key))
	return nil
}
