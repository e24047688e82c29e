package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/questline"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of questline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "questline version %s\n", strings.TrimSpace(questline.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
