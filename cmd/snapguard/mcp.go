package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/infrastructure/bootstrap"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/mcp"
)

var (
	mcpTransport string
	mcpHTTPAddr  string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server for AI assistant integration",
	Long: `Snapguard MCP (Model Context Protocol) Server.

Exposes snapshot checks and maintenance through the MCP protocol.

Tools:
  snapshot_check  - Resolve an image, URL or HTML render against its snapshot
  snapshot_list   - List stored snapshots and failed variants
  snapshot_delete - Delete one snapshot or a matching set
  snapshot_diff   - Compose the saved/new/overlay triage image

Resources:
  snapguard://config    - Current configuration
  snapguard://snapshots - Snapshots under the working directory`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the snapguard MCP server.

Examples:
  snapguard mcp serve                     # Start with stdio transport
  snapguard mcp serve --transport http    # Start HTTP server
  snapguard mcp serve --http-addr :9090   # HTTP on custom port`,
	RunE: runMCPServer,
}

func init() {
	mcpServeCmd.Flags().StringVarP(&mcpTransport, "transport", "t", "stdio", "Transport type: stdio, http")
	mcpServeCmd.Flags().StringVar(&mcpHTTPAddr, "http-addr", ":8080", "HTTP server address (when using http transport)")

	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	if mcpTransport != "stdio" && mcpTransport != "http" {
		return fmt.Errorf("unsupported transport: %s", mcpTransport)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	renderer := bootstrap.New(cfg, newLogger(cmd, cfg)).Renderer()
	defer func() { _ = renderer.Close() }()

	server := mcp.NewServer(cfg, renderer, version)

	if mcpTransport == "http" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Starting snapguard MCP server on %s\n", mcpHTTPAddr)
		return server.ServeHTTP(ctx, mcpHTTPAddr)
	}
	return server.ServeStdio(ctx)
}
