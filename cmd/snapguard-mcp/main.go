package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/infrastructure/bootstrap"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/config"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/logging"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/mcp"
)

var version = "dev"

var (
	transport  string
	httpAddr   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "snapguard-mcp",
	Short: "Snapguard MCP Server",
	Long: `Snapguard MCP (Model Context Protocol) Server.

Exposes visual snapshot checks through the MCP protocol, so assistants
can record, compare, list and clean reference images.

Tools:
  snapshot_check  - Resolve an image, URL or HTML render against its snapshot
  snapshot_list   - List stored snapshots and failed variants
  snapshot_delete - Delete one snapshot or a matching set
  snapshot_diff   - Compose the saved/new/overlay triage image

Resources:
  snapguard://config    - Current configuration
  snapguard://snapshots - Snapshots under the working directory

Examples:
  snapguard-mcp                     # Start with stdio transport
  snapguard-mcp --transport http    # Start HTTP server
  snapguard-mcp --http-addr :9090   # HTTP on custom port`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "Transport type: stdio, http")
	rootCmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (when using http transport)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	if transport != "stdio" && transport != "http" {
		return fmt.Errorf("unsupported transport: %s", transport)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// stdout carries the protocol; logs go to stderr.
	renderer := bootstrap.New(cfg, newLogger(cfg, os.Stderr)).Renderer()
	defer func() { _ = renderer.Close() }()

	server := mcp.NewServer(cfg, renderer, version)

	if transport == "http" {
		fmt.Fprintf(os.Stderr, "Starting snapguard MCP server on %s\n", httpAddr)
		return server.ServeHTTP(ctx, httpAddr)
	}
	return server.ServeStdio(ctx)
}

func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = loader.LoadFromFile(configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, err
	}
	return config.ApplyEnv(cfg, os.LookupEnv), nil
}

func newLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	return logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Output: out,
	})
}
