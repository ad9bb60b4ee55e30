package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the resume, template, render and export endpoints.
Requires DATABASE_URL and JWT_SECRET. Without GEMINI_API_KEY the parse endpoint answers 503.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	exporter, err := export.NewChromeExporter(cfg.ExportOptions())
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return err
	}
	shutdown := []func(){database.Close}

	var parser parsing.ResumeParser
	client, err := newModelClient(ctx, cfg)
	if err != nil {
		log.Printf("[serve] resume parsing disabled: %v", err)
	} else {
		parser = parsing.NewLLMParser(client)
		shutdown = append(shutdown, func() { _ = client.Close() })
	}

	srv := server.New(server.Options{
		Port:        cfg.Port,
		Resumes:     database,
		Templates:   database,
		Parser:      parser,
		Exporter:    exporter,
		Metrics:     observability.NewMetrics(),
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		JWT:         server.NewJWTService(jwtConfig),
		PageSize:    exporter.Options().PaperSize,
		OnShutdown:  shutdown,
	})
	return srv.Start()
}
