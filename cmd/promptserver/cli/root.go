package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	promptsDir string
	verbose    bool
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "promptserver",
	Short: "MCP server for planning and commit-message instructions",
	Long: `promptserver exposes a fixed catalog of instruction documents
(planning, TDD planning, task completion, git commit messages) as
zero-argument MCP tools over stdio. Each call returns the current
contents of the bound file.

Run without a subcommand to serve.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(verbose)
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&promptsDir, "prompts-dir", "", "directory holding the prompt files (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger logs JSON to stderr; stdout carries the protocol.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// Execute runs the root command and logs a fatal error, if any.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = newLogger(false)
		}
		logger.Error("fatal error", "error", err)
		return err
	}
	return nil
}
