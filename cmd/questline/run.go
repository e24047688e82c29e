package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/questline/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Play the scenario",
	Long: `Walks the scenario from its start state, asking for an option at every choice.
When stdin is not a terminal, or with --headless, the first option is taken.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFrom(cmd, args)
		if err != nil {
			return err
		}
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		if cmd.Flags().Changed("seed") {
			opts.Seed, _ = cmd.Flags().GetUint64("seed")
		}
		return cli.RunSession(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Take the first option of every choice without prompting")
	runCmd.Flags().Uint64("seed", 0, "Seed for the random jump chooser (default $QUESTLINE_SEED)")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Args = runCmd.Args
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
