package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/timetable-app/timetable/internal/config"
	"github.com/timetable-app/timetable/internal/extract"
	"github.com/timetable-app/timetable/internal/home"
	"github.com/timetable-app/timetable/internal/server"
	"github.com/timetable-app/timetable/internal/storage"
	"github.com/timetable-app/timetable/internal/store"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the timetable server",
	Long: `Start the timetable HTTP server.

The server exposes the schedule store and the import pipeline to the UI:
templates, courses, JSON file import/export, and AI-assisted document
import. Schedule data is persisted under the home directory.

Examples:
  timetable serve                    # Start on default port 8080
  timetable serve --port 3000        # Start on custom port
  timetable serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		kv, err := storage.NewFileKV(h.DataPath())
		if err != nil {
			return err
		}
		st := store.New(kv, logger)

		extractor := extract.NewClient(extract.Config{
			Model:   cfg.Extraction.Model,
			BaseURL: cfg.Extraction.BaseURL,
			Timeout: time.Duration(cfg.Extraction.TimeoutSeconds) * time.Second,
			Logger:  logger,
		})

		host := serveHost
		if host == "" {
			host = cfg.Server.Host
		}
		port := servePort
		if port == "" {
			port = cfg.Server.Port
		}

		srv, err := server.New(server.Config{
			Host:      host,
			Port:      port,
			Store:     st,
			Extractor: extractor,
			KV:        kv,
			Logger:    logger,
		})
		if err != nil {
			return err
		}

		// Hot-reload only logs for now; listener settings need a restart.
		cm.OnChange(func(c *config.Config) {
			logger.Info("configuration reloaded",
				"model", c.Extraction.Model,
				"timeout_seconds", c.Extraction.TimeoutSeconds)
		})
		cm.WatchConfig()

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
