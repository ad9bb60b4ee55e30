package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume to PDF",
	Long: `Render resume JSON with a template layout JSON and print it to PDF with headless Chrome.
Set CHROME_PATH when Chrome is not on the PATH.`,
	RunE: runExport,
}

var (
	exportTemplate string
	exportResume   string
	exportOut      string
)

func init() {
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Path to template layout JSON (required)")
	exportCmd.Flags().StringVarP(&exportResume, "resume", "r", "", "Path to resume JSON (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "resume.pdf", "Output PDF path")
	_ = exportCmd.MarkFlagRequired("template")
	_ = exportCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	exporter, err := export.NewChromeExporter(cfg.ExportOptions())
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	tmpl, resume, doc, err := renderFiles(exportTemplate, exportResume, exporter.Options().PaperSize)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stderr)
	if cfg.Verbose {
		printer.PrintTemplate(tmpl)
		printer.PrintResume(resume)
	}

	start := time.Now()
	pdf, err := exporter.Export(context.Background(), doc.HTML())
	if err != nil {
		return err
	}
	if err := writeOutput(exportOut, pdf); err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintExport(exportOut, len(pdf), time.Since(start))
	} else {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s (%d bytes)\n", exportOut, len(pdf))
	}
	return nil
}
