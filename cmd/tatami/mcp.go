package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/tatami/internal/cli"
	mcpAdapter "github.com/aretw0/tatami/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the sequence library and quizzes as MCP tools and resources,
so an AI agent can browse sequences or drill a user through one.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		env, err := openDefault(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer env.Close()

		srv := mcpAdapter.NewServer(env.Library, mcpAdapter.WithLogger(env.Logger))

		switch transport {
		case "stdio":
			// Logs go to stderr so they never corrupt JSON-RPC on stdout.
			env.Logger.Info("starting tatami MCP server", "transport", "stdio")
			return srv.ServeStdio()
		case "sse":
			env.Logger.Info("starting tatami MCP server", "transport", "sse", "port", port)

			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			env.Logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
