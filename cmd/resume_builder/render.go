package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume to standalone HTML",
	Long:  "Render resume JSON with a template layout JSON into a standalone HTML document.",
	RunE:  runRender,
}

var (
	renderTemplate string
	renderResume   string
	renderOut      string
)

func init() {
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Path to template layout JSON (required)")
	renderCmd.Flags().StringVarP(&renderResume, "resume", "r", "", "Path to resume JSON (required)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output HTML path (default: stdout)")
	_ = renderCmd.MarkFlagRequired("template")
	_ = renderCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tmpl, resume, doc, err := renderFiles(renderTemplate, renderResume, cfg.ExportPaperSize)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintTemplate(tmpl)
		printer.PrintResume(resume)
	}

	html := doc.HTML()
	if renderOut == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), html)
		return err
	}
	if err := writeOutput(renderOut, []byte(html)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Rendered %s\n", renderOut)
	return nil
}
