package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdesk/internal/adapters/driving/api"
	"github.com/custodia-labs/askdesk/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API and the chat UI.

Routes:
  GET  /health           liveness
  POST /api/chat         {"query": "..."} -> answer and sources
  POST /api/docs/index   ingest a document (X-WEBHOOK-SECRET header or ?secret=)
  GET  /api/docs/list    most recent documents
  GET  /                 chat UI from the static directory`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings, :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if answerService == nil || documentService == nil || healthService == nil {
		return errNotConfigured("answer")
	}
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cfg := api.Config{
		Addr:          settings.Server.Addr,
		WebhookSecret: settings.Server.WebhookSecret,
		StaticDir:     settings.Server.StaticDir,
		AccessLog:     true,
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if !settings.LLM.IsConfigured() {
		logger.Warn("no language model provider configured; answers will carry a configuration notice")
	}

	server := api.NewServer(cfg, answerService, documentService, healthService)
	cmd.Printf("askdesk listening on %s\n", cfg.Addr)
	return server.Run(cmd.Context())
}
