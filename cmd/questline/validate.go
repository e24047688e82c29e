package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/questline/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scenario]",
	Short: "Check the scenario against its restrictions",
	Long: `Loads the scenario and validates every restriction it declares.
With --watch it validates again on every change until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFrom(cmd, args)
		if err != nil {
			return err
		}
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		return cli.Validate(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolP("watch", "w", false, "Validate again whenever the scenario changes")
}
