// Package cmd implements the CLI commands for mdpipe using Cobra.
package cmd

import (
	"fmt"
	"maps"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mdpipe/config"
	"github.com/gaurav-prasanna/mdpipe/logger"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "mdpipe",
	Short: "mdpipe — convert HTML pages into Markdown and structured outputs",
	Long: `mdpipe is a deterministic ingestion pipeline that converts web pages
and local HTML files into Markdown, PDF, JSON, or Embeddings.

Settings are read from a config file, MDPIPE_* environment variables
and flags, in increasing order of precedence.

Usage:
  mdpipe convert <url|file|-> [flags]
  mdpipe md [file|-] [flags]`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("log_level", "info", "Log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings resolves configuration for cmd. bindings maps config keys
// to the names of cmd's own flags.
func loadSettings(cmd *cobra.Command, bindings map[string]string) (config.Settings, *logger.Logger, error) {
	v := config.New()
	if err := config.Load(v, flagConfig); err != nil {
		return config.Settings{}, nil, err
	}

	all := maps.Clone(bindings)
	if all == nil {
		all = map[string]string{}
	}
	if cmd.Flags().Lookup("log_level") != nil {
		all["log_level"] = "log_level"
	}
	if err := config.BindFlags(v, cmd.Flags(), all); err != nil {
		return config.Settings{}, nil, err
	}

	s, err := config.Resolve(v)
	if err != nil {
		return config.Settings{}, nil, err
	}

	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		return config.Settings{}, nil, err
	}
	return s, logger.NewWithLevel(cmd.ErrOrStderr(), level), nil
}
