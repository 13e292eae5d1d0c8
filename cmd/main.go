/*
Package main is the entry point for the channelchat server.

The binary exposes three commands: serve (the default) runs the HTTP and WebSocket server,
migrate applies or inspects the embedded database migrations, and config prints the
resolved configuration.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"channelchat/internal/configs"
	"channelchat/internal/pkg/logx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "channelchat",
		Short:         "Multi-channel chat server with realtime presence",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "optional YAML config file; environment variables take precedence")

	load := func() (*configs.AppConfig, error) {
		cfg, err := configs.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		logx.InitGlobalLogger(cfg.IsDevelopment())
		return cfg, nil
	}

	serve := newServeCmd(load)
	root.AddCommand(serve, newMigrateCmd(load), newConfigCmd(load))
	root.RunE = serve.RunE

	return root
}
