package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "v2c",
		Short:         "Voice to code: generate, store and version code from spoken requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (overrides V2C_CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mcpCmd())

	// Without a subcommand, follow the configured transport mode.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Transport.Mode == "stdio" {
			return runStdio(cmd.Context(), cfg)
		}
		return runHTTP(cmd.Context(), cfg)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "v2c: %v\n", err)
		os.Exit(1)
	}
}
