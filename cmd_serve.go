package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/spacereport/pkg/chat"
	"github.com/harrisonrobin/spacereport/pkg/config"
	"github.com/harrisonrobin/spacereport/pkg/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard backend",
	Long: `Runs the HTTP backend the dashboard polls: GET /api/fetch-data for report
windows and POST /api/events for the chat webhook.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	addr := cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	client, err := chat.NewClient(cmd.Context())
	if err != nil {
		return fmt.Errorf("connecting to chat: %w", err)
	}

	srv := web.NewServer(client, policy, slog.Default())
	slog.Info("dashboard backend listening", "addr", addr)
	return srv.Router().Run(addr)
}
