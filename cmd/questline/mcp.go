package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/questline/internal/cli"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [scenario]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the scenario traversal as MCP tools for AI agents.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFrom(cmd, args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			opts.Addr, _ = cmd.Flags().GetString("addr")
		}

		transport, _ := cmd.Flags().GetString("transport")
		switch transport {
		case "stdio":
			return cli.ServeMCP(cmd.Context(), opts, false)
		case "sse":
			return cli.ServeMCP(cmd.Context(), opts, true)
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (only for SSE)")
}
