package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/questline/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "questline",
	Short: "Questline walks scenario graphs",
	Long: `Questline loads a scenario (a YAML file or a directory of Markdown documents)
into a knowledge base, checks its restrictions and walks it from the start state,
stopping at every choice.`,
	SilenceUsage: true,
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringP("scenario", "s", "", "Scenario file or directory (default $QUESTLINE_SCENARIO or .)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log lifecycle events at debug level")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default $QUESTLINE_LOG_LEVEL)")
}

// optionsFrom reads the persistent flags, a positional scenario path and the environment.
func optionsFrom(cmd *cobra.Command, args []string) (cli.RunOptions, error) {
	path, _ := cmd.Flags().GetString("scenario")
	if !cmd.Flags().Changed("scenario") && len(args) > 0 {
		path = args[0]
	}
	debug, _ := cmd.Flags().GetBool("debug")
	level, _ := cmd.Flags().GetString("log-level")

	return cli.Defaults(cli.RunOptions{
		Path:     path,
		Debug:    debug,
		LogLevel: level,
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
		Err:      cmd.ErrOrStderr(),
	})
}
