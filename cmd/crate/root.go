package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/cratedb/crate-go/core"
	"github.com/cratedb/crate-go/format"
	"github.com/cratedb/crate-go/transport"
)

var (
	flagHosts   string
	flagFormat  string
	flagTimeout time.Duration
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "crate",
	Short:         "Client for CrateDB clusters",
	Long:          "crate talks to one or more CrateDB nodes over HTTP. Queries are load balanced across all configured nodes.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})))
	},
}

// Execute runs the CLI and exits nonzero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	defaultHosts := os.Getenv("CRATE_HOSTS")
	if defaultHosts == "" {
		defaultHosts = "http://localhost:4200"
	}

	rootCmd.PersistentFlags().StringVar(&flagHosts, "hosts", defaultHosts,
		"comma separated node URLs (env: CRATE_HOSTS)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "table",
		"output format: table, csv or json")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second,
		"request timeout")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
}

func newCluster() (*core.Cluster, error) {
	cluster, err := transport.Connect(flagHosts, transport.WithTimeout(flagTimeout))
	if err != nil {
		return nil, fmt.Errorf("transport.Connect: %w", err)
	}

	slog.Debug("connected", "nodes", len(cluster.Nodes()), "hosts", flagHosts)
	return cluster, nil
}

func newFormatter() (format.Formatter, error) {
	return format.Get(flagFormat)
}
