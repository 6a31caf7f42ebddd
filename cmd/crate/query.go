package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var flagArgs []string

var queryCmd = &cobra.Command{
	Use:   "query <statement>",
	Short: "Run a SQL statement",
	Long:  "Runs a single SQL statement against the cluster. Placeholders (?) are bound from --arg flags in order.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := newCluster()
		if err != nil {
			return err
		}
		formatter, err := newFormatter()
		if err != nil {
			return err
		}

		result, err := cluster.Query(cmd.Context(), args[0], parseArgs(flagArgs)...)
		if err != nil {
			return err
		}

		slog.Debug("query finished", "rows", result.Len(), "duration_ms", result.Duration)
		return formatter.Format(result, os.Stdout)
	},
}

// parseArgs turns flag values into typed parameters. Values that parse
// as JSON keep their type (numbers, booleans, null), everything else is
// passed as a string.
func parseArgs(raw []string) []any {
	out := make([]any, 0, len(raw))
	for _, s := range raw {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			v = s
		}
		out = append(out, v)
	}
	return out
}

func init() {
	queryCmd.Flags().StringArrayVar(&flagArgs, "arg", nil, "statement parameter, repeatable")
	rootCmd.AddCommand(queryCmd)
}
