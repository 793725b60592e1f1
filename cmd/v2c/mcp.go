package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/v2c/internal/config"
	"github.com/rpggio/v2c/internal/logging"
	"github.com/spf13/cobra"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve MCP over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Transport.Mode = "stdio"
			return runStdio(cmd.Context(), cfg)
		},
	}
}

func runStdio(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stdout carries JSON-RPC only.
	logger, closeLog := logging.New(logging.Options{Level: cfg.Log.Level, Path: cfg.Log.Path, Stdio: true})
	defer closeLog()

	a, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	mcpServer := buildMCPServer(cfg, a, logger)

	logger.Info("starting stdio transport")
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}
