package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract structured resume JSON from a document",
	Long: `Clean a plain text, markdown or HTML resume and extract structured resume JSON with Gemini.
Requires GEMINI_API_KEY. The result is a starting point to review, not a finished resume.`,
	RunE: runParse,
}

var (
	parseIn   string
	parseOut  string
	parseMeta string
)

func init() {
	parseCmd.Flags().StringVarP(&parseIn, "in", "i", "", "Path to the resume document (required)")
	parseCmd.Flags().StringVarP(&parseOut, "out", "o", "", "Output JSON path (default: stdout)")
	parseCmd.Flags().StringVar(&parseMeta, "meta", "", "Also write upload metadata JSON to this path")
	_ = parseCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	upload, err := ingestion.IngestFile(parseIn)
	if err != nil {
		return err
	}

	if parseMeta != "" {
		meta, err := upload.Metadata.ToJSON()
		if err != nil {
			return err
		}
		if err := writeOutput(parseMeta, meta); err != nil {
			return err
		}
	}

	ctx := context.Background()
	client, err := newModelClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	resume, err := parsing.NewLLMParser(client).ParseResumeText(ctx, upload.Text)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintUpload(upload.Metadata)
		printer.PrintResume(resume)
	}

	data, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if parseOut == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := writeOutput(parseOut, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Parsed %s -> %s\n", parseIn, parseOut)
	return nil
}
