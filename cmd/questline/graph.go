package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/questline/internal/cli"
)

var graphCmd = &cobra.Command{
	Use:   "graph [scenario]",
	Short: "Export the scenario as a Mermaid flowchart",
	Long:  `Loads the scenario and prints a Mermaid diagram (graph TD) of its states and jumps.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFrom(cmd, args)
		if err != nil {
			return err
		}
		return cli.Graph(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
