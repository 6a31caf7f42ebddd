package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive SQL shell",
	Long:  "Starts an interactive shell. Each line is executed as a SQL statement. Type \\q or press Ctrl-D to exit.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := newCluster()
		if err != nil {
			return err
		}
		formatter, err := newFormatter()
		if err != nil {
			return err
		}

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		historyPath := shellHistoryPath()
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()

		sessionID := uuid.NewString()
		slog.Debug("shell session started", "session", sessionID)
		fmt.Printf("connected to %s\n", flagHosts)

		for {
			input, err := line.Prompt("cr> ")
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
				return nil
			}
			if err != nil {
				return fmt.Errorf("line.Prompt: %w", err)
			}

			stmt := strings.TrimSpace(strings.TrimSuffix(input, ";"))
			if stmt == "" {
				continue
			}
			if stmt == `\q` || strings.EqualFold(stmt, "exit") {
				return nil
			}
			line.AppendHistory(input)

			result, err := cluster.Query(cmd.Context(), stmt)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}

			if err := formatter.Format(result, os.Stdout); err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Printf("%d rows (%.3f ms)\n", result.Len(), result.Duration)
		}
	},
}

func shellHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("no home directory, history disabled", "error", err)
		return filepath.Join(os.TempDir(), ".crate_history")
	}
	return filepath.Join(home, ".crate_history")
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
