package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/questline/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve [scenario]",
	Short: "Start the HTTP server",
	Long: `Serves one traversal of the scenario as a JSON API, with a Mermaid view,
an SSE event stream and Prometheus metrics on /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFrom(cmd, args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			opts.Addr, _ = cmd.Flags().GetString("addr")
		}
		return cli.Serve(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (default $QUESTLINE_ADDR)")
}
