package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/metrics"
	"github.com/jonathan/resume-scorer/internal/server"
)

var (
	servePort       int
	serveConfigPath string
	serveKeywords   string
	serveDBURL      string
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that scores uploaded resumes.

Report history (GET /reports) is enabled when DATABASE_URL or --db-url is set.
Prometheus metrics are served at /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().StringVarP(&serveKeywords, "keywords", "k", "", "Path to keyword set JSON")
	serveCmd.Flags().StringVar(&serveDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Log extraction details for every request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, serveConfigPath, flagOverrides{
		"port":     func(c *config.Config) { c.Port = servePort },
		"keywords": func(c *config.Config) { c.KeywordsPath = serveKeywords },
		"db-url":   func(c *config.Config) { c.DatabaseURL = serveDBURL },
		"verbose":  func(c *config.Config) { c.Verbose = serveVerbose },
	})
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	p, err := newPipeline(cfg, recorder)
	if err != nil {
		return err
	}

	srv, err := server.New(context.Background(), server.Config{
		Port:           cfg.Port,
		DatabaseURL:    cfg.DatabaseURL,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, p, recorder)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
